package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSingleRecipe(t *testing.T) {
	doc := []byte(`{
		"title": "Honey Garlic Chicken",
		"category": "main-course",
		"ingredients": [{"item": "chicken", "amount": "2 lbs"}],
		"instructions": ["Cook it"]
	}`)

	batch, err := Normalize(doc)
	require.NoError(t, err)
	require.Len(t, batch.Recipes, 1)
	require.Len(t, batch.Categories, 1)

	assert.Equal(t, "Honey Garlic Chicken", batch.Recipes[0].Title)
	assert.Equal(t, "main-course", batch.Categories[0].ID)
	assert.Equal(t, "Main Course", batch.Categories[0].Name)
	assert.Equal(t, 1, batch.Categories[0].Count)
}

func TestNormalizeSingleRecipeDefaultCategory(t *testing.T) {
	doc := []byte(`{"title": "Toast", "ingredients": [{"item": "bread"}], "instructions": ["Toast it"]}`)

	batch, err := Normalize(doc)
	require.NoError(t, err)
	assert.Equal(t, "main-course", batch.Categories[0].ID)
}

func TestNormalizeCollection(t *testing.T) {
	doc := []byte(`{
		"recipes": [{"id": "r1", "title": "Soup"}],
		"categories": [{"id": "soups", "name": "Soups"}]
	}`)

	batch, err := Normalize(doc)
	require.NoError(t, err)
	assert.Len(t, batch.Recipes, 1)
	assert.Len(t, batch.Categories, 1)
}

func TestNormalizeRejectsMalformedDocuments(t *testing.T) {
	var vErr *ValidationError

	_, err := Normalize([]byte(`not json`))
	require.ErrorAs(t, err, &vErr)

	_, err = Normalize([]byte(`{"categories": []}`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid recipes array", vErr.Message)

	_, err = Normalize([]byte(`{"recipes": []}`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid categories array", vErr.Message)

	_, err = Normalize([]byte(`{"recipes": "nope", "categories": []}`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid recipes array", vErr.Message)

	_, err = Normalize([]byte(`{"recipes": null, "categories": []}`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid recipes array", vErr.Message)

	_, err = Normalize([]byte(`{"recipes": [], "categories": null}`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid categories array", vErr.Message)
}

func TestNormalizeNullRecipeKeysFallThroughToCollection(t *testing.T) {
	doc := []byte(`{"title": null, "ingredients": null, "instructions": null}`)

	var vErr *ValidationError
	_, err := Normalize(doc)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "missing or invalid recipes array", vErr.Message)
}
