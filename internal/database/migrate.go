package database

import (
	"github.com/changcookbook/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date for every cookbook model.
// Ordering matters: referenced tables before referencing ones so foreign
// key constraints can be created in one pass.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Category{},
		&models.Chef{},
		&models.Tag{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.Instruction{},
		&models.Nutrition{},
		&models.RecipeTag{},
	)
}
