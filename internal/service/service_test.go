package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/changcookbook/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Category{
		ID:   id,
		Name: id,
	}).Error)
}
