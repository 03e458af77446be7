// Package main runs the web API server: it waits for the database, applies
// schema migrations, and then serves HTTP. Behavior is controlled by
// environment variables; a .env file in the working directory is loaded when
// present.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/launchbox/webapi/internal/app"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialise application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		// Startup or serve failure: exit non-zero so the container runtime
		// sees the failure. The listener is never bound when a startup step
		// fails.
		log.Fatalf("Application failed: %v", err)
	}

	if err := application.Shutdown(context.Background()); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}
