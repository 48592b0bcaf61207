package repositories

import (
	"context"
	"time"

	"github.com/lottohub/draws-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawFilter holds the optional criteria for a draw listing. Zero-valued
// fields impose no constraint; supplied fields are ANDed together.
type DrawFilter struct {
	CategoryID *primitive.ObjectID // exact category match
	Status     models.DrawStatus   // exact status match
	DrawNumber string              // substring match against draw_number
	DateFrom   *time.Time          // inclusive lower bound (start of day)
	DateTo     *time.Time          // inclusive upper bound (end of day)
}

// CategoryRepository defines the interface for draw category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.DrawCategory) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawCategory, error)
	FindBySlug(ctx context.Context, slug string) (*models.DrawCategory, error)
	FindAll(ctx context.Context) ([]*models.DrawCategory, error)
	FindActive(ctx context.Context) ([]*models.DrawCategory, error)
	Update(ctx context.Context, category *models.DrawCategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByDrawNumber(ctx context.Context, drawNumber string) (*models.Draw, error)
	// List returns one page of draws matching the filter, ordered by draw
	// date descending, plus the total match count. Pages are 1-indexed.
	List(ctx context.Context, filter DrawFilter, page, perPage int) ([]*models.Draw, int64, error)
	FindLive(ctx context.Context, limit int) ([]*models.Draw, error)
	FindFeatured(ctx context.Context, limit int) ([]*models.Draw, error)
	FindRelated(ctx context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]*models.Draw, error)
	Update(ctx context.Context, draw *models.Draw) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByCategory removes every draw owned by the category and reports
	// how many were deleted. Used by the category cascade.
	DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

// AdminUserRepository defines the interface for admin account operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
