package types

// RegisterRequest is the self-service registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateInvitationRequest asks for a new chef invitation.
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInvitationRequest turns a pending invitation into an account.
type AcceptInvitationRequest struct {
	Name            string `json:"name" binding:"required,min=2"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// CreateCategoryRequest creates a curated category.
type CreateCategoryRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Emoji       string `json:"emoji" binding:"required"`
}

// RecipePayload is the create/update body for a single recipe. The chef is
// derived from the authenticated user, never taken from the payload.
type RecipePayload struct {
	ID           string           `json:"id"`
	Title        string           `json:"title" binding:"required"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Category     string           `json:"category" binding:"required"`
	Difficulty   string           `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	PrepTime     int              `json:"prepTime"`
	CookTime     int              `json:"cookTime"`
	TotalTime    int              `json:"totalTime"`
	Servings     int              `json:"servings"`
	Image        string           `json:"image"`
	ImageCredit  string           `json:"imageCredit"`
	Featured     bool             `json:"featured"`
	Ingredients  []IngredientView `json:"ingredients" binding:"required,min=1"`
	Instructions []string         `json:"instructions" binding:"required,min=1"`
	Nutrition    *NutritionView   `json:"nutrition"`
	Tags         []string         `json:"tags"`
}
