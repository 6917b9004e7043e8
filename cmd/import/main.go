package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/changcookbook/backend/config"
	"github.com/changcookbook/backend/internal/database"
	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/service"
)

// Imports a recipe JSON document from disk. Used for the initial corpus
// load and for bulk edits that go around the admin UI.
func main() {
	file := flag.String("file", "", "path to the recipe JSON document")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file recipes.json")
		os.Exit(2)
	}

	doc, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *file, err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()

	// Imported recipes need an owning account; fall back to the
	// bootstrap admin.
	auth := service.NewAuthService(db, cfg.JWTSecret)
	admin, err := auth.EnsureAdminUser(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	result, err := importer.NewImporter(db).Run(ctx, doc, admin.ID)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("recipes created:     %d\n", result.RecipesCreated)
	fmt.Printf("categories upserted: %d\n", result.CategoriesUpserted)
	fmt.Printf("chefs created:       %d\n", result.ChefsCreated)
	fmt.Printf("recipes skipped:     %d\n", result.RecipesSkipped)
	if len(result.Errors) > 0 {
		fmt.Printf("errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e)
		}
		os.Exit(1)
	}
}
