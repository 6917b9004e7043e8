package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError reports a structurally invalid input document. It aborts
// the whole run before any writes.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ChefInput identifies the displayed author of an imported recipe.
type ChefInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// IngredientInput is one ingredient line of an imported recipe.
type IngredientInput struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// NutritionInput carries optional free-text nutrition facts.
type NutritionInput struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// RecipeInput is one denormalized recipe record as found in the source
// document.
type RecipeInput struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Difficulty   string            `json:"difficulty"`
	PrepTime     int               `json:"prepTime"`
	CookTime     int               `json:"cookTime"`
	TotalTime    int               `json:"totalTime"`
	Servings     int               `json:"servings"`
	Rating       float64           `json:"rating"`
	ReviewCount  int               `json:"reviewCount"`
	Image        string            `json:"image"`
	ImageCredit  string            `json:"imageCredit"`
	Featured     bool              `json:"featured"`
	CreatedAt    string            `json:"createdAt"`
	Chef         *ChefInput        `json:"chef"`
	Ingredients  []IngredientInput `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	Nutrition    *NutritionInput   `json:"nutrition"`
	Tags         []string          `json:"tags"`
}

// CategoryInput is one category record of a multi-recipe document.
type CategoryInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
}

// Batch is the uniform internal representation every trigger surface feeds
// into the pipeline.
type Batch struct {
	Recipes    []RecipeInput
	Categories []CategoryInput
}

// Normalize parses a raw JSON document and produces a uniform batch. Two
// shapes are accepted: a single recipe object (top-level title, ingredients
// and instructions) which is wrapped as a one-element batch with a
// synthesized category, or a {recipes: [...], categories: [...]} collection.
// Pure: no store access, no side effects.
func Normalize(doc []byte) (*Batch, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, &ValidationError{Message: "invalid JSON format"}
	}

	if hasKeys(top, "title", "ingredients", "instructions") {
		var recipe RecipeInput
		if err := json.Unmarshal(doc, &recipe); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid recipe document: %v", err)}
		}
		return &Batch{
			Recipes:    []RecipeInput{recipe},
			Categories: []CategoryInput{synthesizeCategory(recipe.Category)},
		}, nil
	}

	var recipes []RecipeInput
	if raw, ok := top["recipes"]; !ok || isNull(raw) || json.Unmarshal(raw, &recipes) != nil {
		return nil, &ValidationError{Message: "missing or invalid recipes array"}
	}
	var categories []CategoryInput
	if raw, ok := top["categories"]; !ok || isNull(raw) || json.Unmarshal(raw, &categories) != nil {
		return nil, &ValidationError{Message: "missing or invalid categories array"}
	}

	return &Batch{Recipes: recipes, Categories: categories}, nil
}

// hasKeys reports whether every key is present with a non-null value. A key
// set to JSON null counts as absent, so such documents fall through to the
// collection shape and its validation.
func hasKeys(top map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		raw, ok := top[k]
		if !ok || isNull(raw) {
			return false
		}
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// synthesizeCategory builds the category record a single-recipe document
// implies: the recipe's category id (default main-course) with a
// title-cased display name.
func synthesizeCategory(id string) CategoryInput {
	if id == "" {
		id = "main-course"
	}
	return CategoryInput{
		ID:          id,
		Name:        titleize(id),
		Description: fmt.Sprintf("Category for %s recipes", strings.ReplaceAll(id, "-", " ")),
		Emoji:       "🍳",
		Count:       1,
	}
}

func titleize(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
