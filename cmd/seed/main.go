package main

import (
	"context"
	"log"

	"gorm.io/gorm/clause"

	"github.com/changcookbook/backend/config"
	"github.com/changcookbook/backend/internal/database"
	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/service"
)

// The curated category set shown on the home page. Imports may add more.
var defaultCategories = []models.Category{
	{ID: "main-course", Name: "Main Course", Description: "Main dishes and entrees", Emoji: "🍽️"},
	{ID: "appetizers", Name: "Appetizers", Description: "Starters and small plates", Emoji: "🥗"},
	{ID: "desserts", Name: "Desserts", Description: "Sweet treats and desserts", Emoji: "🍰"},
	{ID: "beverages", Name: "Beverages", Description: "Drinks and beverages", Emoji: "🥤"},
	{ID: "salads", Name: "Salads", Description: "Fresh and healthy salads", Emoji: "🥙"},
	{ID: "soups", Name: "Soups", Description: "Warm and comforting soups", Emoji: "🍲"},
	{ID: "snacks", Name: "Snacks", Description: "Quick bites and snacks", Emoji: "🥨"},
	{ID: "quick-meals", Name: "Quick Meals", Description: "Fast and easy meals", Emoji: "⚡"},
}

func main() {
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

	for _, category := range defaultCategories {
		err := db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "emoji"}),
		}).Create(&category).Error
		if err != nil {
			log.Fatalf("failed to seed category %s: %v", category.ID, err)
		}
	}
	log.Printf("seeded %d categories", len(defaultCategories))

	if err := importer.ReconcileCategoryCounts(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to reconcile category counts: %v", err)
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	admin, err := auth.EnsureAdminUser(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}
	log.Printf("admin account ready: %s", admin.Email)
}
