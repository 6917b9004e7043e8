package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/changcookbook/backend/internal/service"
	"github.com/changcookbook/backend/internal/types"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c *gin.Context) {
	views, err := h.categories.List(c.Request.Context())
	if err != nil {
		log.Printf("list categories failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": views})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req types.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := h.categories.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
			return
		}
		log.Printf("create category failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}
