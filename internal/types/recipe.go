package types

// RecipeView is the denormalized recipe shape served by the public API.
// It mirrors the document format the importer consumes, so exported and
// imported corpora round-trip.
type RecipeView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Difficulty   string           `json:"difficulty"`
	PrepTime     int              `json:"prepTime"`
	CookTime     int              `json:"cookTime"`
	TotalTime    int              `json:"totalTime"`
	Servings     int              `json:"servings"`
	Rating       float64          `json:"rating"`
	ReviewCount  int              `json:"reviewCount"`
	Image        string           `json:"image"`
	ImageCredit  string           `json:"imageCredit,omitempty"`
	Featured     bool             `json:"featured"`
	HeroFeatured bool             `json:"heroFeatured"`
	CreatedAt    string           `json:"createdAt"`
	Chef         ChefView         `json:"chef"`
	Ingredients  []IngredientView `json:"ingredients"`
	Instructions []string         `json:"instructions"`
	Nutrition    *NutritionView   `json:"nutrition,omitempty"`
	Tags         []string         `json:"tags"`
}

type ChefView struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type IngredientView struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

type NutritionView struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// CategoryView is a category with its live recipe count.
type CategoryView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
}

// RecipeList is a paginated listing.
type RecipeList struct {
	Recipes         []RecipeView `json:"recipes"`
	TotalCount      int64        `json:"totalCount"`
	CurrentPage     int          `json:"currentPage"`
	TotalPages      int          `json:"totalPages"`
	HasNextPage     bool         `json:"hasNextPage"`
	HasPreviousPage bool         `json:"hasPreviousPage"`
}
