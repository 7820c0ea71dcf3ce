package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shophub/backend/config"
	httpDelivery "github.com/shophub/backend/internal/delivery/http"
	"github.com/shophub/backend/internal/domain"
	"github.com/shophub/backend/internal/infrastructure/blob"
	"github.com/shophub/backend/internal/infrastructure/scraper"
	"github.com/shophub/backend/internal/infrastructure/store"
	"github.com/shophub/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopHub Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store driver: %s", cfg.Store.Driver)

	// Initialize infrastructure dependencies
	catalog, err := buildCatalogStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize catalog store: %v", err)
	}

	if cfg.Store.Seed {
		seeded, err := store.Seed(context.Background(), catalog)
		if err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		if seeded > 0 {
			log.Printf("Seeded catalog with %d sample products", seeded)
		}
	}

	blobs, err := blob.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	log.Printf("Uploads: %s served at %s", cfg.Uploads.Dir, cfg.Uploads.BaseURL)

	// Initialize usecase layer
	importService := usecase.NewImportService(
		catalog,
		scraper.NewFetcher(),
		scraper.NewExtractor(),
		scraper.NewImageImporter(blobs),
	)
	searchService := usecase.NewSearchService(catalog, usecase.SearchConfig{
		FuzzyThreshold:   cfg.Search.FuzzyThreshold,
		SuggestThreshold: cfg.Search.SuggestThreshold,
	})
	compareService := usecase.NewCompareService(catalog)

	log.Printf("Search: fuzzy=%.2f, suggest=%.2f",
		cfg.Search.FuzzyThreshold, cfg.Search.SuggestThreshold)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(importService, searchService, compareService, catalog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildCatalogStore(cfg *config.Config) (domain.ProductStore, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(context.Background()); err != nil {
			return nil, err
		}
		log.Printf("SQLite catalog at %s", cfg.Store.DSN)
		return s, nil
	default:
		log.Printf("In-memory catalog (data is lost on restart)")
		return store.NewMemoryStore(), nil
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
