package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/TriggerMinds/Archive-OSINT/internal/ai"
	"github.com/TriggerMinds/Archive-OSINT/internal/api"
	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
	"github.com/TriggerMinds/Archive-OSINT/internal/config"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/db"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.APIKey == "" {
		log.Fatal("SERVICE_API_KEY environment variable must be set")
	}

	// Initialize database connection
	database, err := db.NewConnection(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	store := postgres.NewStore(database)
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// External clients
	archiveClient := archive.NewClient(cfg.Archive.BaseURL, cfg.Archive.Rows)
	assistant := ai.New(cfg.LLM)

	// Initialize router with dependencies
	router := api.NewRouter(archiveClient, store, assistant, cfg.APIKey)

	// Start the HTTP server
	log.Printf("Starting HTTP server on :%s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
