package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/service"
	"github.com/changcookbook/backend/internal/types"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	auth    *service.AuthService
}

func NewRecipeHandler(recipes *service.RecipeService, auth *service.AuthService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, auth: auth}
}

func (h *RecipeHandler) List(c *gin.Context) {
	opts := service.ListOptions{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		opts.Featured = &featured
	}
	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			opts.Page = page
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit <= 100 {
			opts.PerPage = limit
		}
	}

	list, err := h.recipes.List(c.Request.Context(), opts)
	if err != nil {
		log.Printf("list recipes failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	view, err := h.recipes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("get recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) GetBySlug(c *gin.Context) {
	view, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		log.Printf("get recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Hero returns the recipe pinned to the home page hero, 404 when none is.
func (h *RecipeHandler) Hero(c *gin.Context) {
	view, err := h.recipes.HeroRecipe(c.Request.Context())
	if err != nil {
		log.Printf("get hero recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hero recipe"})
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no hero recipe configured"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var payload types.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), user, &payload)
	if err != nil {
		h.writeError(c, err, "failed to create recipe")
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var payload types.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), user, c.Param("id"), &payload)
	if err != nil {
		h.writeError(c, err, "failed to update recipe")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete recipe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func (h *RecipeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	user, err := h.auth.GetUserByID(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	return user, true
}

func (h *RecipeHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrNotRecipeOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this recipe"})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "a recipe with this slug already exists"})
	case errors.Is(err, service.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
