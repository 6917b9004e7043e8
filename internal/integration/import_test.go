package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/service"
	"github.com/changcookbook/backend/internal/testdb"
)

// Runs the import pipeline against a real Postgres to catch anything the
// sqlite unit tests paper over (upsert clauses, quoted columns).
func TestImportAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	td := testdb.Setup(t)
	ctx := context.Background()

	auth := service.NewAuthService(td.DB, "test-secret")
	admin, err := auth.EnsureAdminUser(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)

	doc := []byte(`{
		"recipes": [{
			"id": "pad-thai-001",
			"title": "Pad Thai",
			"category": "main-course",
			"chef": {"name": "Maria"},
			"prepTime": 20,
			"cookTime": 15,
			"servings": 4,
			"ingredients": [{"item": "rice noodles", "amount": "200g"}],
			"instructions": ["Soak", "Fry"],
			"nutrition": {"calories": "520", "protein": "18g", "carbs": "70g", "fat": "16g"},
			"tags": ["thai", "noodles"]
		}],
		"categories": [{
			"id": "main-course",
			"name": "Main Course",
			"description": "Mains",
			"emoji": "🍽️",
			"count": 1
		}]
	}`)

	imp := importer.NewImporter(td.DB)
	result, err := imp.Run(ctx, doc, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecipesCreated)
	assert.Equal(t, 1, result.CategoriesUpserted)
	assert.Equal(t, 1, result.ChefsCreated)
	assert.Empty(t, result.Errors)

	// Second run exercises the category upsert path and id dedup.
	result, err = imp.Run(ctx, doc, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RecipesCreated)
	assert.Equal(t, 1, result.RecipesSkipped)

	var recipe models.Recipe
	require.NoError(t, td.DB.Preload("Ingredients").Preload("Instructions").First(&recipe, "id = ?", "pad-thai-001").Error)
	assert.Len(t, recipe.Ingredients, 1)
	assert.Len(t, recipe.Instructions, 2)

	var category models.Category
	require.NoError(t, td.DB.First(&category, "id = ?", "main-course").Error)
	assert.Equal(t, 1, category.Count)
}
