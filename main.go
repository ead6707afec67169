package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"licensing-map/internal/agent"
	"licensing-map/internal/catalogstore"
	"licensing-map/internal/cli"
	"licensing-map/internal/config"
	"licensing-map/internal/datastore"
	"licensing-map/internal/export"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return 1
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Handle help command without touching the store
	if command == "help" {
		printUsage()
		return 0
	}

	config.LoadDotEnv()

	// The API server wires its own store, agent and directory
	if command == "serve" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd := cli.ServeCommand()
		cmd.SetArgs(args)
		if err := cmd.ExecuteContext(ctx); err != nil {
			return 1
		}
		return 0
	}

	cfg := config.GetDataStoreConfig()
	dataStore, err := datastore.New(cfg)
	if err != nil {
		log.Printf("Failed to initialize data store: %v", err)
		return 1
	}

	// Print mode information for clarity
	if dataStore == nil {
		fmt.Println("Running in IN-MEMORY mode (built-in catalog)")
	} else {
		fmt.Printf("Running in %s mode\n", cfg.Type)
	}

	ctx := context.Background()

	switch command {
	case "init-db":
		err = cli.RunInitDB(ctx, dataStore, args)
		closeStore(dataStore)

	case "seed-catalog":
		err = cli.RunSeedCatalog(ctx, dataStore, args)
		closeStore(dataStore)

	case "reset-catalog":
		err = cli.RunResetCatalog(ctx, dataStore, args)
		closeStore(dataStore)

	case "bundle-list", "capability-list", "summary", "export-csv", "ask":
		// The catalog store owns and closes the data store from here on
		st := catalogstore.Open(ctx, dataStore)
		err = runCatalogCommand(ctx, command, st, args)
		if closeErr := st.Close(); closeErr != nil {
			log.Printf("Warning: failed to close store: %v", closeErr)
		}

	default:
		closeStore(dataStore)
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		log.Printf("Command failed: %v", err)
		return 1
	}

	return 0
}

func runCatalogCommand(ctx context.Context, command string, st *catalogstore.Store, args []string) error {
	switch command {
	case "bundle-list":
		return cli.RunBundleList(ctx, st, args)
	case "capability-list":
		return cli.RunCapabilityList(ctx, st, args)
	case "summary":
		return cli.RunSummary(ctx, st, args)

	case "export-csv":
		var archiver export.Archiver
		if bucket := config.ExportBucket(); bucket != "" {
			s3Archiver, err := export.NewS3Archiver(ctx, bucket, config.AWSRegion())
			if err != nil {
				log.Printf("Warning: export archiving disabled: %v", err)
			} else {
				archiver = s3Archiver
			}
		}
		return cli.RunExportCSV(ctx, st, archiver, args)

	case "ask":
		aiAgent, err := agent.NewAgent(ctx, config.GeminiAPIKey(), config.GeminiModel())
		if err != nil {
			log.Printf("Warning: Failed to initialize AI agent: %v", err)
			aiAgent = nil
		}
		if aiAgent != nil {
			defer aiAgent.Close()
		}
		return cli.RunAsk(ctx, st, aiAgent, args)
	}
	return fmt.Errorf("unknown command: %s", command)
}

func closeStore(ds datastore.DataStore) {
	if ds == nil {
		return
	}
	if err := ds.Close(); err != nil {
		log.Printf("Warning: failed to close data store: %v", err)
	}
}

func printUsage() {
	fmt.Println("Licensing Map CLI (plan comparison dashboard)")
	fmt.Println("Usage: licensing-map <command> [options]")
	fmt.Println("\nEnvironment Variables:")
	fmt.Println("  LICMAP_STORE_TYPE      'postgres' for database mode, 'file' for a JSON file, unset for in-memory")
	fmt.Println("  LICMAP_DATA_FILE       Path of the JSON catalog file (default: data/catalog.json)")
	fmt.Println("  DB_CONN_STRING         PostgreSQL connection string (required for database mode)")
	fmt.Println("  GEMINI_API_KEY         Enables the licensing assistant (GOOGLE_API_KEY also accepted)")
	fmt.Println("  EXPORT_BUCKET          S3 bucket that receives a copy of every CSV export")
	fmt.Println("\nServer:")
	fmt.Println("  serve [--port=<port>] [--store=<postgres|file|none>] [--db=<conn>]")
	fmt.Println("                               Runs the dashboard and admin API.")
	fmt.Println("\nSetup Commands:")
	fmt.Println("  init-db                      (One-time) Initializes the backing store schema.")
	fmt.Println("  seed-catalog                 (One-time) Writes the built-in catalog to the backing store.")
	fmt.Println("  reset-catalog --confirm      Overwrites the backing store with the built-in catalog.")
	fmt.Println("\nCatalog Commands:")
	fmt.Println("  bundle-list                  Lists every bundle with prices.")
	fmt.Println("  capability-list [--category=<category>] [--search=<text>]")
	fmt.Println("                               Lists capabilities and their tiers.")
	fmt.Println("  summary [--bundles=<id1,id2>] [--frequency=<monthly|annual>] [--matrix]")
	fmt.Println("                               Totals, coverage and the comparison matrix for a selection.")
	fmt.Println("  export-csv [--bundles=<id1,id2>] [--dir=<path>]")
	fmt.Println("                               Writes the comparison as CSV.")
	fmt.Println("\nAssistant (requires GEMINI_API_KEY):")
	fmt.Println("  ask --question=<text> [--bundles=<id1,id2>]")
	fmt.Println("                               Asks the licensing assistant about the catalog.")
}
