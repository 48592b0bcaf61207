package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository is an in-memory implementation of repositories.CategoryRepository
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]*models.DrawCategory
}

// NewCategoryRepository creates an empty in-memory category repository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[primitive.ObjectID]*models.DrawCategory),
	}
}

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// Create creates a new category, enforcing slug uniqueness
func (r *CategoryRepository) Create(ctx context.Context, category *models.DrawCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return &apperrors.ConstraintError{Op: "category create", Err: apperrors.ErrDuplicateKey}
		}
	}
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = cloneCategory(category)
	return nil
}

// FindByID finds a category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneCategory(category), nil
}

// FindBySlug finds a category by its unique slug
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.DrawCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			return cloneCategory(category), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// FindAll finds all categories ordered by sort order
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.DrawCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*models.DrawCategory) bool { return true }), nil
}

// FindActive finds active categories ordered by sort order
func (r *CategoryRepository) FindActive(ctx context.Context) ([]*models.DrawCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(c *models.DrawCategory) bool { return c.IsActive }), nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.DrawCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for _, existing := range r.categories {
		if existing.ID != category.ID && existing.Slug == category.Slug {
			return &apperrors.ConstraintError{Op: "category update", Err: apperrors.ErrDuplicateKey}
		}
	}
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = cloneCategory(category)
	return nil
}

// Delete deletes a category by ID
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *CategoryRepository) collect(keep func(*models.DrawCategory) bool) []*models.DrawCategory {
	matched := make([]*models.DrawCategory, 0)
	for _, category := range r.categories {
		if keep(category) {
			matched = append(matched, cloneCategory(category))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SortOrder != matched[j].SortOrder {
			return matched[i].SortOrder < matched[j].SortOrder
		}
		return matched[i].Name < matched[j].Name
	})
	return matched
}

func cloneCategory(c *models.DrawCategory) *models.DrawCategory {
	clone := *c
	if c.DrawSchedule != nil {
		schedule := *c.DrawSchedule
		schedule.Days = append([]string(nil), c.DrawSchedule.Days...)
		clone.DrawSchedule = &schedule
	}
	return &clone
}
