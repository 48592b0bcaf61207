package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository implements the repositories.CategoryRepository interface
type CategoryRepository struct {
	collection *mongo.Collection
}

// Ensure CategoryRepository implements repositories.CategoryRepository
var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection("draw_categories"),
	}
}

// EnsureIndexes creates the unique slug index.
func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "sortOrder", Value: 1}}},
	})
	return err
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.DrawCategory) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperrors.ConstraintError{Op: "category create", Err: err}
		}
		return err
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawCategory, error) {
	var category models.DrawCategory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its unique slug
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.DrawCategory, error) {
	var category models.DrawCategory
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds all categories ordered by sort order
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*models.DrawCategory, error) {
	return r.find(ctx, bson.M{})
}

// FindActive finds active categories ordered by sort order
func (r *CategoryRepository) FindActive(ctx context.Context) ([]*models.DrawCategory, error) {
	return r.find(ctx, bson.M{"isActive": true})
}

func (r *CategoryRepository) find(ctx context.Context, filter bson.M) ([]*models.DrawCategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*models.DrawCategory
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.DrawCategory{}
	}
	return categories, nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.DrawCategory) error {
	category.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperrors.ConstraintError{Op: "category update", Err: err}
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete deletes a category by ID. The draw cascade is orchestrated by the
// service via DrawRepository.DeleteByCategory before this is called.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
