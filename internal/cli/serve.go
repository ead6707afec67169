package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"licensing-map/internal/agent"
	"licensing-map/internal/api"
	"licensing-map/internal/catalogstore"
	"licensing-map/internal/config"
	"licensing-map/internal/datastore"
	"licensing-map/internal/export"
	"licensing-map/internal/logging"
	"licensing-map/internal/users"
)

// ServeCommand creates the serve command
func ServeCommand() *cobra.Command {
	var (
		port      string
		storeType string
		dbConnStr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison dashboard and admin API",
		Long: `Run the HTTP API for the licensing comparison dashboard and admin portal.

The catalog is held in memory and mirrored to the configured backing store.
Without one, edits last until the process exits.

Examples:
  # In-memory catalog on the default port
  ./licensing-map serve

  # Postgres-backed catalog
  ./licensing-map serve --store=postgres --db="postgres://localhost/licmap?sslmode=disable"

  # JSON file-backed catalog on port 9090
  LICMAP_DATA_FILE=data/catalog.json ./licensing-map serve --store=file --port=9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), ServeOptions{Port: port, StoreType: storeType, DBConnString: dbConnStr})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&storeType, "store", "", "Backing store: postgres, file or none (overrides LICMAP_STORE_TYPE)")
	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides DB_CONN_STRING)")

	return cmd
}

// ServeOptions override the environment for Serve. Empty fields keep the
// environment's value.
type ServeOptions struct {
	Port         string
	StoreType    string
	DBConnString string
}

// Serve builds the catalog, assistant and user directory and runs the API
// until ctx is cancelled or the listener fails.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg := config.GetDataStoreConfig()
	if opts.StoreType != "" {
		cfg = config.DataStoreConfigFor(opts.StoreType)
	}
	if opts.DBConnString != "" {
		cfg.ConnectionString = opts.DBConnString
	}

	persister, err := datastore.New(cfg)
	if err != nil {
		logging.Warn("backing store unavailable, running in memory", map[string]interface{}{
			"type":  string(cfg.Type),
			"error": err.Error(),
		})
		persister = nil
	}

	st := catalogstore.Open(ctx, persister)
	defer st.Close()

	st.Subscribe(func(ch catalogstore.Change) {
		logging.LogKV("info", "catalog changed", map[string]interface{}{
			"entity": string(ch.Entity),
			"action": string(ch.Action),
			"id":     ch.ID,
		})
	})

	aiAgent, err := agent.NewAgent(ctx, config.GeminiAPIKey(), config.GeminiModel())
	if err != nil {
		log.Printf("Warning: Failed to initialize AI agent: %v", err)
		aiAgent = nil
	}
	if aiAgent == nil {
		log.Println("ℹ️ AI assistant disabled (set GEMINI_API_KEY to enable)")
	} else {
		defer aiAgent.Close()
	}

	dir, err := users.NewDirectory(config.AdminPasscode(), config.SuperPasscode())
	if err != nil {
		return fmt.Errorf("failed to initialize user directory: %w", err)
	}

	deps := api.Deps{
		Store:  st,
		Agent:  aiAgent,
		Users:  dir,
		Tokens: users.NewTokens(config.JWTSecret(), config.SessionTTL()),
	}
	if bucket := config.ExportBucket(); bucket != "" {
		archiver, err := export.NewS3Archiver(ctx, bucket, config.AWSRegion())
		if err != nil {
			log.Printf("Warning: export archiving disabled: %v", err)
		} else {
			deps.Archiver = archiver
		}
	}

	port := opts.Port
	if port == "" {
		port = config.Port()
	}
	log.Printf("Starting licensing-map API on :%s (store: %s)", port, storeLabel(cfg, persister))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewServer(deps).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	log.Println("Server exited")
	return nil
}

func storeLabel(cfg datastore.Config, persister datastore.DataStore) string {
	switch {
	case persister == nil:
		return "in-memory"
	case cfg.Type == datastore.PostgreSQLStore:
		return "postgresql " + maskConnectionString(cfg.ConnectionString)
	case cfg.Type == datastore.FileStore:
		return "file " + cfg.DataPath
	default:
		return string(cfg.Type)
	}
}
