package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/changcookbook/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result is the report every import run produces. Callers can always tell
// created, skipped-as-duplicate and failed-with-reason apart; a bare
// success/failure boolean is never returned.
type Result struct {
	RecipesCreated     int      `json:"recipes"`
	CategoriesUpserted int      `json:"categories"`
	ChefsCreated       int      `json:"chefs"`
	RecipesSkipped     int      `json:"skipped"`
	Errors             []string `json:"errors"`
}

// Importer turns a denormalized JSON recipe document into normalized
// relational rows. The store handle is injected by the caller, which owns
// its lifecycle; the Importer holds no global state between runs.
type Importer struct {
	db *gorm.DB
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// Run executes one import over one document. Normalization failure is the
// only fatal outcome; once persistence begins, each recipe fails or
// succeeds on its own and the run always completes with a full report.
// authorID is attached to every created recipe as the owning account.
func (imp *Importer) Run(ctx context.Context, doc []byte, authorID uuid.UUID) (*Result, error) {
	batch, err := Normalize(doc)
	if err != nil {
		return nil, err
	}
	return imp.RunBatch(ctx, batch, authorID)
}

// RunBatch imports an already-normalized batch.
func (imp *Importer) RunBatch(ctx context.Context, batch *Batch, authorID uuid.UUID) (*Result, error) {
	db := imp.db.WithContext(ctx)
	result := &Result{Errors: []string{}}
	res := newResolver(db)

	imp.upsertCategories(db, batch.Categories, result)
	imp.resolveChefs(res, batch.Recipes, result)

	for i := range batch.Recipes {
		imp.materializeRecipe(db, res, &batch.Recipes[i], authorID, result)
	}

	// Best-effort: a reconciliation failure must not erase the per-recipe
	// results accumulated above.
	if err := ReconcileCategoryCounts(db); err != nil {
		log.Printf("category count reconciliation failed: %v", err)
	}

	return result, nil
}

func (imp *Importer) upsertCategories(db *gorm.DB, categories []CategoryInput, result *Result) {
	for _, c := range categories {
		category := models.Category{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Emoji:       c.Emoji,
			Count:       c.Count,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "emoji", "count"}),
		}).Create(&category).Error
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Category %s: %v", c.ID, err))
			continue
		}
		result.CategoriesUpserted++
	}
}

// resolveChefs runs a dedup pass over the batch so each distinct chef name
// maps to exactly one row before any recipe is written.
func (imp *Importer) resolveChefs(res *resolver, recipes []RecipeInput, result *Result) {
	for _, r := range recipes {
		if r.Chef == nil || r.Chef.Name == "" {
			continue
		}
		if _, ok := res.ChefID(r.Chef.Name); ok {
			continue
		}
		_, created, err := res.ResolveChef(*r.Chef)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Chef %s: %v", r.Chef.Name, err))
			continue
		}
		if created {
			result.ChefsCreated++
		}
	}
}

// materializeRecipe persists one recipe and everything it owns as a single
// atomic unit. A duplicate id counts as skipped; any other failure rolls
// the whole recipe back and is recorded against it alone.
func (imp *Importer) materializeRecipe(db *gorm.DB, res *resolver, in *RecipeInput, authorID uuid.UUID, result *Result) {
	var existing models.Recipe
	err := db.Select("id").First(&existing, "id = ?", in.ID).Error
	if err == nil {
		result.RecipesSkipped++
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		result.Errors = append(result.Errors, fmt.Sprintf("Recipe %s: %v", in.Title, err))
		return
	}

	var chefID uuid.UUID
	if in.Chef != nil {
		chefID, _ = res.ChefID(in.Chef.Name)
	}
	if chefID == uuid.Nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Recipe %s: Chef not found", in.Title))
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		recipe := buildRecipe(in, chefID, authorID)
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}

		for i, ing := range in.Ingredients {
			row := models.Ingredient{
				RecipeID: recipe.ID,
				Item:     ing.Item,
				Amount:   ing.Amount,
				Order:    i,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i, step := range in.Instructions {
			row := models.Instruction{
				RecipeID: recipe.ID,
				Step:     step,
				Order:    i,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if in.Nutrition != nil {
			row := models.Nutrition{
				RecipeID: recipe.ID,
				Calories: in.Nutrition.Calories,
				Protein:  in.Nutrition.Protein,
				Carbs:    in.Nutrition.Carbs,
				Fat:      in.Nutrition.Fat,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, name := range in.Tags {
			tagID, err := res.StageTag(tx, name)
			if err != nil {
				return err
			}
			join := models.RecipeTag{RecipeID: recipe.ID, TagID: tagID}
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		res.DiscardStaged()
		result.Errors = append(result.Errors, fmt.Sprintf("Recipe %s: %v", in.Title, err))
		return
	}

	res.CommitStaged()
	result.RecipesCreated++
}

func buildRecipe(in *RecipeInput, chefID, authorID uuid.UUID) models.Recipe {
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}
	totalTime := in.TotalTime
	if totalTime == 0 {
		totalTime = in.PrepTime + in.CookTime
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}

	recipe := models.Recipe{
		ID:          in.ID,
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		CategoryID:  in.Category,
		Difficulty:  difficulty,
		PrepTime:    in.PrepTime,
		CookTime:    in.CookTime,
		TotalTime:   totalTime,
		Servings:    in.Servings,
		Rating:      in.Rating,
		ReviewCount: in.ReviewCount,
		Image:       in.Image,
		ImageCredit: in.ImageCredit,
		Featured:    in.Featured,
		ChefID:      chefID,
		AuthorID:    authorID,
	}
	if in.CreatedAt != "" {
		if ts, err := time.Parse("2006-01-02", in.CreatedAt); err == nil {
			recipe.CreatedAt = ts
		}
	}
	return recipe
}

// ReconcileCategoryCounts recomputes every category's count column as the
// true number of persisted recipes referencing it. It is a materialized
// aggregate, never a running counter, so it stays correct when recipes are
// skipped, fail or are deleted out of band. Categories with no recipes are
// reset to zero rather than left stale.
func ReconcileCategoryCounts(db *gorm.DB) error {
	type stat struct {
		CategoryID string
		N          int
	}
	var stats []stat
	err := db.Model(&models.Recipe{}).
		Select("category_id, COUNT(id) AS n").
		Group("category_id").
		Scan(&stats).Error
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(stats))
	for _, s := range stats {
		counts[s.CategoryID] = s.N
	}

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}
	for _, c := range categories {
		n := counts[c.ID]
		if c.Count == n {
			continue
		}
		if err := db.Model(&models.Category{}).Where("id = ?", c.ID).Update("count", n).Error; err != nil {
			return err
		}
	}
	return nil
}
