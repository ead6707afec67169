package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"licensing-map/internal/catalog"
	"licensing-map/internal/datastore"
)

var errNoBackingStore = errors.New("no backing store configured; set LICMAP_STORE_TYPE to postgres or file")

// RunInitDB handles the 'init-db' command.
func RunInitDB(ctx context.Context, ds datastore.DataStore, args []string) error {
	if ds == nil {
		return errNoBackingStore
	}
	if err := ds.InitDB(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	fmt.Println("Store initialized successfully.")
	return nil
}

// RunSeedCatalog handles the 'seed-catalog' command.
func RunSeedCatalog(ctx context.Context, ds datastore.DataStore, args []string) error {
	if ds == nil {
		return errNoBackingStore
	}
	if err := ds.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	fmt.Println("Catalog seeded successfully with the built-in dataset.")
	return nil
}

// RunResetCatalog handles the 'reset-catalog' command. It overwrites the
// backing store with the built-in dataset and needs --confirm.
func RunResetCatalog(ctx context.Context, ds datastore.DataStore, args []string) error {
	fs := flag.NewFlagSet("reset-catalog", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm that every edit will be lost")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if ds == nil {
		return errNoBackingStore
	}
	if !*confirm {
		fs.Usage()
		return fmt.Errorf("error: reset discards every edit, re-run with --confirm")
	}

	capabilities, bundles := catalog.Defaults()
	if err := ds.ReplaceAll(ctx, capabilities, bundles); err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}
	if err := ds.SetTenantMetadata(ctx, "last_reset", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to record reset: %w", err)
	}
	fmt.Printf("Catalog reset: %d capabilities, %d bundles.\n", len(capabilities), len(bundles))
	return nil
}
