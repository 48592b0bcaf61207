package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"github.com/lottohub/draws-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// CategoryInput carries the fields of a category create/update request.
type CategoryInput struct {
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	Color        string               `json:"color"`
	DrawSchedule *models.DrawSchedule `json:"draw_schedule"`
	IsActive     *bool                `json:"is_active"`
	SortOrder    int                  `json:"sort_order"`
}

// CategoryService defines the category read and admin write operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.DrawCategory, error)
	ActiveCategories(ctx context.Context) ([]*models.DrawCategory, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.DrawCategory, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.DrawCategory, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, input CategoryInput) (*models.DrawCategory, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

// Compile-time check to ensure CategoryServiceImpl implements CategoryService
var _ CategoryService = (*CategoryServiceImpl)(nil)

// CategoryServiceImpl handles category-related business logic
type CategoryServiceImpl struct {
	categoryRepo repositories.CategoryRepository
	drawRepo     repositories.DrawRepository
}

// NewCategoryService creates a new CategoryServiceImpl
func NewCategoryService(categoryRepo repositories.CategoryRepository, drawRepo repositories.DrawRepository) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		drawRepo:     drawRepo,
	}
}

// ListCategories returns every category ordered by sort order
func (s *CategoryServiceImpl) ListCategories(ctx context.Context) ([]*models.DrawCategory, error) {
	return s.categoryRepo.FindAll(ctx)
}

// ActiveCategories returns active categories for pickers and public filters
func (s *CategoryServiceImpl) ActiveCategories(ctx context.Context) ([]*models.DrawCategory, error) {
	return s.categoryRepo.FindActive(ctx)
}

// GetCategory returns a single category
func (s *CategoryServiceImpl) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.DrawCategory, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// CreateCategory validates and persists a new category
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, input CategoryInput) (*models.DrawCategory, error) {
	category, err := s.validateInput(ctx, input, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		slog.Error("Failed to create category", "error", err, "slug", category.Slug)
		return nil, err
	}
	slog.Info("Category created", "categoryId", category.ID, "slug", category.Slug)
	return category, nil
}

// UpdateCategory validates and persists changes to an existing category
func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, id primitive.ObjectID, input CategoryInput) (*models.DrawCategory, error) {
	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := s.validateInput(ctx, input, id)
	if err != nil {
		return nil, err
	}

	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		slog.Error("Failed to update category", "error", err, "categoryId", id)
		return nil, err
	}
	slog.Info("Category updated", "categoryId", category.ID, "slug", category.Slug)
	return category, nil
}

// DeleteCategory removes a category and cascades to every draw it owns.
// Mongo has no referential actions, so the cascade is performed here: draws
// first, then the category itself, leaving no orphans either way.
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	deleted, err := s.drawRepo.DeleteByCategory(ctx, id)
	if err != nil {
		return &apperrors.ConstraintError{Op: "category cascade delete", Err: err}
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Category deleted", "categoryId", id, "cascadedDraws", deleted)
	return nil
}

// validateInput coerces and validates every field before any write. selfID is
// the category being updated, or NilObjectID on create.
func (s *CategoryServiceImpl) validateInput(ctx context.Context, input CategoryInput, selfID primitive.ObjectID) (*models.DrawCategory, error) {
	verr := apperrors.NewValidationError()

	if input.Name == "" {
		verr.Add("name", "Category name is required.")
	}

	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		verr.Add("slug", "Category slug is required.")
	} else if !utils.ValidSlug(slug) {
		verr.Add("slug", "Slug may only contain lowercase letters, numbers and hyphens.")
	} else {
		other, err := s.categoryRepo.FindBySlug(ctx, slug)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if other != nil && other.ID != selfID {
			verr.Add("slug", "This slug is already in use.")
		}
	}

	color := input.Color
	if color == "" {
		color = models.DefaultCategoryColor
	} else if !utils.ValidHexColor(color) {
		verr.Add("color", "Color must be a hex value like #3B82F6.")
	}

	if schedule := input.DrawSchedule; schedule != nil {
		for _, day := range schedule.Days {
			if _, ok := utils.ParseWeekday(day); !ok {
				verr.Add("draw_schedule", fmt.Sprintf("%q is not a valid weekday name.", day))
				break
			}
		}
		if schedule.Time != "" && !utils.ValidClockTime(schedule.Time) {
			verr.Add("draw_schedule", "Schedule time must be in HH:MM format.")
		}
	}

	// New categories default to active.
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &models.DrawCategory{
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		Color:        color,
		DrawSchedule: input.DrawSchedule,
		IsActive:     isActive,
		SortOrder:    input.SortOrder,
	}, nil
}
