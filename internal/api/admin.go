package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/service"
)

// maxImportSize caps import uploads at 20MB. The full production corpus is
// well under 2MB.
const maxImportSize = 20 << 20

type AdminHandler struct {
	db         *gorm.DB
	importer   *importer.Importer
	recipes    *service.RecipeService
	categories *service.CategoryService
}

func NewAdminHandler(db *gorm.DB, imp *importer.Importer, recipes *service.RecipeService, categories *service.CategoryService) *AdminHandler {
	return &AdminHandler{
		db:         db,
		importer:   imp,
		recipes:    recipes,
		categories: categories,
	}
}

// Migrate ingests a recipe JSON document uploaded as the jsonFile form
// field and reports what was created, skipped and rejected.
func (h *AdminHandler) Migrate(c *gin.Context) {
	file, _, err := c.Request.FormFile("jsonFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jsonFile upload is required"})
		return
	}
	defer file.Close()

	doc, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	if len(doc) > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "uploaded file is too large"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.importer.Run(c.Request.Context(), doc, userID.(uuid.UUID))
	if err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		log.Printf("import failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	// Counts changed, so the cached category listing is stale.
	h.categories.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Migration completed",
		"results": result,
	})
}

type featureRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetFeatured toggles a recipe's featured flag.
func (h *AdminHandler) SetFeatured(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.recipes.SetFeatured(c.Request.Context(), c.Param("id"), *req.Enabled); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("set featured failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe updated"})
}

// SetHero pins or unpins the home page hero recipe.
func (h *AdminHandler) SetHero(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.recipes.SetHero(c.Request.Context(), c.Param("id"), *req.Enabled); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("set hero failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe updated"})
}

// Dashboard returns the counts shown on the admin landing page.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts := gin.H{}
	for name, model := range map[string]any{
		"recipes":    &models.Recipe{},
		"categories": &models.Category{},
		"chefs":      &models.Chef{},
		"users":      &models.User{},
		"tags":       &models.Tag{},
	} {
		var n int64
		if err := h.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			log.Printf("dashboard count failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
			return
		}
		counts[name] = n
	}
	c.JSON(http.StatusOK, counts)
}
