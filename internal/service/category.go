package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/types"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category already exists")

const (
	categoryCacheKey = "changcookbook:categories"
	categoryCacheTTL = 5 * time.Minute
)

// CategoryService serves the curated category list. Listings are cached in
// Redis because every page render asks for them; the cache is dropped
// whenever categories or their counts change.
type CategoryService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewCategoryService(db *gorm.DB, cache *redis.Client) *CategoryService {
	return &CategoryService{db: db, cache: cache}
}

// List returns all categories with live recipe counts, cheapest path first.
func (s *CategoryService) List(ctx context.Context) ([]types.CategoryView, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, categoryCacheKey).Bytes()
		if err == nil {
			var views []types.CategoryView
			if err := json.Unmarshal(cached, &views); err == nil {
				return views, nil
			}
		}
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	views := make([]types.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, types.CategoryView{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Emoji:       c.Emoji,
			Count:       c.Count,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := s.cache.Set(ctx, categoryCacheKey, payload, categoryCacheTTL).Err(); err != nil {
				log.Printf("category cache set failed: %v", err)
			}
		}
	}
	return views, nil
}

// Get returns one category or gorm.ErrRecordNotFound.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create adds a curated category. The id is the stable slug used in URLs.
func (s *CategoryService) Create(ctx context.Context, req *types.CreateCategoryRequest) (*models.Category, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := models.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return &category, nil
}

// Invalidate drops the cached listing. Called after anything that changes
// categories or their counts, including imports.
func (s *CategoryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, categoryCacheKey).Err(); err != nil {
		log.Printf("category cache invalidation failed: %v", err)
	}
}
