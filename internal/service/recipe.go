package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/changcookbook/backend/internal/importer"
	"github.com/changcookbook/backend/internal/models"
	"github.com/changcookbook/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrSlugTaken       = errors.New("a recipe with this slug already exists")
	ErrNotRecipeOwner  = errors.New("not the owner of this recipe")
	ErrUnknownCategory = errors.New("unknown category")
)

const defaultPageSize = 12

// ListOptions narrows and orders a recipe listing.
type ListOptions struct {
	Category   string
	Difficulty string
	Featured   *bool
	Search     string
	Sort       string
	Page       int
	PerPage    int
}

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns a page of recipes matching the options, with chefs and tags
// resolved for display.
func (s *RecipeService) List(ctx context.Context, opts ListOptions) (*types.RecipeList, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if opts.Category != "" {
		query = query.Where("category_id = ?", opts.Category)
	}
	if opts.Difficulty != "" {
		query = query.Where("difficulty = ?", opts.Difficulty)
	}
	if opts.Featured != nil {
		query = query.Where("featured = ?", *opts.Featured)
	}
	if opts.Search != "" {
		needle := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR EXISTS (SELECT 1 FROM ingredients WHERE ingredients.recipe_id = recipes.id AND LOWER(ingredients.item) LIKE ?)",
			needle, needle, needle,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	switch opts.Sort {
	case "rating":
		query = query.Order("rating DESC, review_count DESC")
	case "preptime":
		query = query.Order("prep_time ASC")
	case "title":
		query = query.Order("title ASC")
	default:
		query = query.Order("created_at DESC")
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = defaultPageSize
	}

	var recipes []models.Recipe
	err := s.withChildren(query).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, toRecipeView(&recipes[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return &types.RecipeList{
		Recipes:         views,
		TotalCount:      total,
		CurrentPage:     page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

// GetByID loads one recipe with all its children.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*types.RecipeView, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetBySlug loads one recipe by its URL slug.
func (s *RecipeService) GetBySlug(ctx context.Context, slug string) (*types.RecipeView, error) {
	return s.getOne(ctx, "slug = ?", slug)
}

func (s *RecipeService) getOne(ctx context.Context, cond string, arg any) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.withChildren(s.db.WithContext(ctx)).Where(cond, arg).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	view := toRecipeView(&recipe)
	return &view, nil
}

// HeroRecipe returns the recipe currently pinned to the home page hero, or
// nil when none is pinned.
func (s *RecipeService) HeroRecipe(ctx context.Context) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.withChildren(s.db.WithContext(ctx)).Where("hero_featured = ?", true).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	view := toRecipeView(&recipe)
	return &view, nil
}

// Create stores a recipe authored by the given user. The user's chef
// profile becomes the displayed chef.
func (s *RecipeService) Create(ctx context.Context, user *models.User, payload *types.RecipePayload) (*types.RecipeView, error) {
	slug := payload.Slug
	if slug == "" {
		slug = importer.Slugify(payload.Title)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	if err := s.db.WithContext(ctx).First(&models.Category{}, "id = ?", payload.Category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	var chef models.Chef
	err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		chef = models.Chef{Name: user.Name, UserID: &user.ID}
		err = s.db.WithContext(ctx).Create(&chef).Error
	}
	if err != nil {
		return nil, err
	}

	id := payload.ID
	if id == "" {
		id = uuid.NewString()
	}
	recipe := models.Recipe{
		ID:          id,
		Title:       payload.Title,
		Slug:        slug,
		Description: payload.Description,
		CategoryID:  payload.Category,
		Difficulty:  payload.Difficulty,
		PrepTime:    payload.PrepTime,
		CookTime:    payload.CookTime,
		TotalTime:   payload.TotalTime,
		Servings:    payload.Servings,
		Image:       payload.Image,
		ImageCredit: payload.ImageCredit,
		Featured:    payload.Featured,
		ChefID:      chef.ID,
		AuthorID:    user.ID,
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = models.DifficultyEasy
	}
	if recipe.TotalTime == 0 {
		recipe.TotalTime = recipe.PrepTime + recipe.CookTime
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.createChildren(tx, recipe.ID, payload)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// Update replaces a recipe's fields and children. Only the author or an
// admin may update a recipe.
func (s *RecipeService) Update(ctx context.Context, user *models.User, id string, payload *types.RecipePayload) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return nil, ErrNotRecipeOwner
	}

	slug := payload.Slug
	if slug == "" {
		slug = importer.Slugify(payload.Title)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("slug = ? AND id <> ?", slug, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	if err := s.db.WithContext(ctx).First(&models.Category{}, "id = ?", payload.Category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	recipe.Title = payload.Title
	recipe.Slug = slug
	recipe.Description = payload.Description
	recipe.CategoryID = payload.Category
	if payload.Difficulty != "" {
		recipe.Difficulty = payload.Difficulty
	}
	recipe.PrepTime = payload.PrepTime
	recipe.CookTime = payload.CookTime
	recipe.TotalTime = payload.TotalTime
	if recipe.TotalTime == 0 {
		recipe.TotalTime = recipe.PrepTime + recipe.CookTime
	}
	recipe.Servings = payload.Servings
	recipe.Image = payload.Image
	recipe.ImageCredit = payload.ImageCredit
	recipe.Featured = payload.Featured

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := s.deleteChildren(tx, recipe.ID); err != nil {
			return err
		}
		return s.createChildren(tx, recipe.ID, payload)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, recipe.ID)
}

// Delete removes a recipe and its children. Only the author or an admin
// may delete a recipe.
func (s *RecipeService) Delete(ctx context.Context, user *models.User, id string) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return ErrNotRecipeOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deleteChildren(tx, recipe.ID); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// SetFeatured toggles a recipe's presence in the featured carousel.
func (s *RecipeService) SetFeatured(ctx context.Context, id string, featured bool) error {
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// SetHero pins a recipe to the home page hero. At most one recipe is the
// hero at a time, so pinning clears any previous pin.
func (s *RecipeService) SetHero(ctx context.Context, id string, hero bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if hero {
			if err := tx.Model(&models.Recipe{}).
				Where("hero_featured = ?", true).
				Update("hero_featured", false).Error; err != nil {
				return err
			}
		}
		result := tx.Model(&models.Recipe{}).
			Where("id = ?", id).
			Update("hero_featured", hero)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func (s *RecipeService) withChildren(db *gorm.DB) *gorm.DB {
	ordered := func(db *gorm.DB) *gorm.DB {
		return db.Order(`"order" ASC`)
	}
	return db.
		Preload("Chef").
		Preload("Ingredients", ordered).
		Preload("Instructions", ordered).
		Preload("Nutrition").
		Preload("Tags.Tag")
}

func (s *RecipeService) createChildren(tx *gorm.DB, recipeID string, payload *types.RecipePayload) error {
	for i, ing := range payload.Ingredients {
		row := models.Ingredient{
			RecipeID: recipeID,
			Item:     ing.Item,
			Amount:   ing.Amount,
			Order:    i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for i, step := range payload.Instructions {
		row := models.Instruction{
			RecipeID: recipeID,
			Step:     step,
			Order:    i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	if payload.Nutrition != nil {
		row := models.Nutrition{
			RecipeID: recipeID,
			Calories: payload.Nutrition.Calories,
			Protein:  payload.Nutrition.Protein,
			Carbs:    payload.Nutrition.Carbs,
			Fat:      payload.Nutrition.Fat,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, name := range payload.Tags {
		var tag models.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return fmt.Errorf("create tag %s: %w", name, err)
			}
		}
		join := models.RecipeTag{RecipeID: recipeID, TagID: tag.ID}
		if err := tx.Create(&join).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) deleteChildren(tx *gorm.DB, recipeID string) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Instruction{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Nutrition{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error
}

func toRecipeView(r *models.Recipe) types.RecipeView {
	view := types.RecipeView{
		ID:           r.ID,
		Title:        r.Title,
		Slug:         r.Slug,
		Description:  r.Description,
		Category:     r.CategoryID,
		Difficulty:   r.Difficulty,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		TotalTime:    r.TotalTime,
		Servings:     r.Servings,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		Image:        r.Image,
		ImageCredit:  r.ImageCredit,
		Featured:     r.Featured,
		HeroFeatured: r.HeroFeatured,
		CreatedAt:    r.CreatedAt.Format("2006-01-02"),
		Ingredients:  make([]types.IngredientView, 0, len(r.Ingredients)),
		Instructions: make([]string, 0, len(r.Instructions)),
		Tags:         make([]string, 0, len(r.Tags)),
	}
	if r.Chef != nil {
		view.Chef.Name = r.Chef.Name
		if r.Chef.Avatar != nil {
			view.Chef.Avatar = *r.Chef.Avatar
		}
	}
	for _, ing := range r.Ingredients {
		view.Ingredients = append(view.Ingredients, types.IngredientView{
			Item:   ing.Item,
			Amount: ing.Amount,
		})
	}
	for _, step := range r.Instructions {
		view.Instructions = append(view.Instructions, step.Step)
	}
	if r.Nutrition != nil {
		view.Nutrition = &types.NutritionView{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
		}
	}
	for _, rt := range r.Tags {
		if rt.Tag != nil {
			view.Tags = append(view.Tags, rt.Tag.Name)
		}
	}
	return view
}
