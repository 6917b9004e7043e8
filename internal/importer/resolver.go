package importer

import (
	"errors"

	"github.com/changcookbook/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// resolver maps chef and tag names to persisted row ids within one import
// run. The cache is scoped to the run, never the process; a fresh resolver
// is built per invocation. Concurrent runs racing on the same name are left
// to the store's unique constraints to arbitrate.
type resolver struct {
	db    *gorm.DB
	chefs map[string]uuid.UUID
	tags  map[string]uuid.UUID

	// staged holds tag ids created or looked up inside a still-open
	// transaction. They only enter the cache when the transaction commits,
	// so a rollback cannot leave stale ids behind.
	staged map[string]uuid.UUID
}

func newResolver(db *gorm.DB) *resolver {
	return &resolver{
		db:     db,
		chefs:  make(map[string]uuid.UUID),
		tags:   make(map[string]uuid.UUID),
		staged: make(map[string]uuid.UUID),
	}
}

// ResolveChef returns the id of the chef with the given name, creating the
// row on first miss. The boolean reports whether a new row was created.
func (r *resolver) ResolveChef(in ChefInput) (uuid.UUID, bool, error) {
	if id, ok := r.chefs[in.Name]; ok {
		return id, false, nil
	}

	var chef models.Chef
	err := r.db.Where("name = ?", in.Name).First(&chef).Error
	if err == nil {
		r.chefs[in.Name] = chef.ID
		return chef.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}

	chef = models.Chef{Name: in.Name}
	if in.Avatar != "" {
		avatar := in.Avatar
		chef.Avatar = &avatar
	}
	if err := r.db.Create(&chef).Error; err != nil {
		return uuid.Nil, false, err
	}
	r.chefs[in.Name] = chef.ID
	return chef.ID, true, nil
}

// ChefID reports the cached id for a chef name resolved earlier in the run.
func (r *resolver) ChefID(name string) (uuid.UUID, bool) {
	id, ok := r.chefs[name]
	return id, ok
}

// StageTag finds or creates the tag with the given name inside tx and
// stages its id for the cache. Call CommitStaged or DiscardStaged once the
// transaction settles.
func (r *resolver) StageTag(tx *gorm.DB, name string) (uuid.UUID, error) {
	if id, ok := r.tags[name]; ok {
		return id, nil
	}
	if id, ok := r.staged[name]; ok {
		return id, nil
	}

	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		err = tx.Create(&tag).Error
	}
	if err != nil {
		return uuid.Nil, err
	}
	r.staged[name] = tag.ID
	return tag.ID, nil
}

func (r *resolver) CommitStaged() {
	for name, id := range r.staged {
		r.tags[name] = id
	}
	r.staged = make(map[string]uuid.UUID)
}

func (r *resolver) DiscardStaged() {
	r.staged = make(map[string]uuid.UUID)
}
