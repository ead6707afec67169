package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"licensing-map/internal/catalogstore"
	"licensing-map/internal/export"
)

// RunExportCSV handles the 'export-csv' command. The file is also archived
// when an archiver is configured.
func RunExportCSV(ctx context.Context, st *catalogstore.Store, archiver export.Archiver, args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)
	bundleList := fs.String("bundles", "", "Comma-separated bundle ids (default: the standard comparison)")
	dir := fs.String("dir", ".", "Directory to write the CSV into")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	bundles := selectBundles(st, *bundleList)
	body, err := export.Render(bundles, st.Capabilities())
	if err != nil {
		return err
	}

	name := export.FileName(time.Now())
	path := filepath.Join(*dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	export.ArchiveQuietly(ctx, archiver, name, body)

	fmt.Printf("Exported %d bundles to %s\n", len(bundles), path)
	return nil
}
