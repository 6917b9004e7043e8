package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups recipes. The ID is a stable slug chosen by content
// curators (e.g. "main-course"), not a generated key. Count is a derived
// aggregate maintained by the import reconciler; nothing else writes it.
type Category struct {
	ID          string    `gorm:"size:50;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Emoji       string    `gorm:"size:16" json:"emoji"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chef is the displayed author of a recipe. Deduplicated by name during
// imports. May be linked to a user account once the chef registers.
type Chef struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null;index" json:"name"`
	Avatar    *string    `gorm:"size:255" json:"avatar,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Chef) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Tag is a free-form label, unique by name, created lazily on first use.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Recipe is the aggregate root. It owns its ingredients, instructions and
// nutrition row (cascade-deleted with it) and references category, chef and
// author. IDs are caller-supplied strings so that imported corpora keep
// their identifiers across environments.
type Recipe struct {
	ID           string     `gorm:"size:64;primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Slug         string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description  string     `gorm:"type:text" json:"description"`
	CategoryID   string     `gorm:"size:50;not null;index" json:"category"`
	Category     *Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Difficulty   string     `gorm:"size:20;not null;default:'easy'" json:"difficulty"`
	PrepTime     int        `gorm:"not null;default:0" json:"prepTime"`
	CookTime     int        `gorm:"not null;default:0" json:"cookTime"`
	TotalTime    int        `gorm:"not null;default:0" json:"totalTime"`
	Servings     int        `gorm:"not null;default:0" json:"servings"`
	Rating       float64    `gorm:"not null;default:0" json:"rating"`
	ReviewCount  int        `gorm:"not null;default:0" json:"reviewCount"`
	Image        string     `gorm:"size:512" json:"image"`
	ImageCredit  string     `gorm:"size:255" json:"imageCredit,omitempty"`
	Featured     bool       `gorm:"not null;default:false" json:"featured"`
	HeroFeatured bool       `gorm:"not null;default:false" json:"heroFeatured"`
	ChefID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"chef_id"`
	Chef         *Chef      `gorm:"foreignKey:ChefID" json:"-"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Ingredients  []Ingredient  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Instructions []Instruction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Nutrition    *Nutrition    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tags         []RecipeTag   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Difficulty values accepted on recipes.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Ingredient is one line of a recipe's ingredient list, kept in input order.
type Ingredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID string    `gorm:"size:64;not null;index" json:"recipe_id"`
	Item     string    `gorm:"size:255;not null" json:"item"`
	Amount   string    `gorm:"size:100" json:"amount"`
	Order    int       `gorm:"not null" json:"order"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Instruction is one ordered step of a recipe.
type Instruction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID string    `gorm:"size:64;not null;index" json:"recipe_id"`
	Step     string    `gorm:"type:text;not null" json:"step"`
	Order    int       `gorm:"not null" json:"order"`
}

func (i *Instruction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Nutrition holds the optional per-recipe nutrition facts. Magnitudes are
// free text ("15g", "320 kcal") exactly as supplied by the source document.
type Nutrition struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID string    `gorm:"size:64;not null;uniqueIndex" json:"recipe_id"`
	Calories string    `gorm:"size:50" json:"calories"`
	Protein  string    `gorm:"size:50" json:"protein"`
	Carbs    string    `gorm:"size:50" json:"carbs"`
	Fat      string    `gorm:"size:50" json:"fat"`
}

func (n *Nutrition) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// RecipeTag joins recipes and tags.
type RecipeTag struct {
	RecipeID string    `gorm:"size:64;primaryKey" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
	Tag      *Tag      `gorm:"foreignKey:TagID" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
