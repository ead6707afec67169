// Web server for the licensing comparison dashboard.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"licensing-map/internal/cli"
	"licensing-map/internal/config"
)

func main() {
	port := flag.String("port", "", "Listen port (default: $PORT or 8080)")
	store := flag.String("store", "", "Backing store: postgres, file or none")
	db := flag.String("db", "", "Database connection string")
	flag.Parse()

	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, cli.ServeOptions{Port: *port, StoreType: *store, DBConnString: *db}); err != nil {
		log.Fatalf("server: %v", err)
	}
}
