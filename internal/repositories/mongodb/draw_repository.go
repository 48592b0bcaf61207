package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DrawRepository implements the repositories.DrawRepository interface
type DrawRepository struct {
	collection *mongo.Collection
}

// Ensure DrawRepository implements repositories.DrawRepository
var _ repositories.DrawRepository = (*DrawRepository)(nil)

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// EnsureIndexes creates the unique draw_number index plus the listing
// indexes. The unique index is what serializes concurrent writers racing on
// the same draw number.
func (r *DrawRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "drawNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "drawDate", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "drawDate", Value: -1}}},
		{Keys: bson.D{{Key: "isFeatured", Value: 1}, {Key: "drawDate", Value: -1}}},
		{Keys: bson.D{{Key: "drawCategoryId", Value: 1}}},
	})
	return err
}

// buildFilter translates a DrawFilter into a bson query document.
func buildFilter(f repositories.DrawFilter) bson.M {
	filter := bson.M{}
	if f.CategoryID != nil {
		filter["drawCategoryId"] = *f.CategoryID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DrawNumber != "" {
		filter["drawNumber"] = bson.M{"$regex": regexEscape(f.DrawNumber)}
	}
	dateFilter := bson.M{}
	if f.DateFrom != nil {
		dateFilter["$gte"] = startOfDay(*f.DateFrom)
	}
	if f.DateTo != nil {
		// Inclusive on the date portion: anything before the next day.
		dateFilter["$lt"] = startOfDay(*f.DateTo).AddDate(0, 0, 1)
	}
	if len(dateFilter) > 0 {
		filter["drawDate"] = dateFilter
	}
	return filter
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// regexEscape quotes regex metacharacters so draw number fragments like
// "0001/25" match literally.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Create creates a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, draw)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperrors.ConstraintError{Op: "draw create", Err: err}
		}
		return err
	}
	draw.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &draw, nil
}

// FindByDrawNumber finds a draw by its exact draw number
func (r *DrawRepository) FindByDrawNumber(ctx context.Context, drawNumber string) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"drawNumber": drawNumber}).Decode(&draw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &draw, nil
}

// List returns one page of draws matching the filter, newest draw date first
func (r *DrawRepository) List(ctx context.Context, f repositories.DrawFilter, page, perPage int) ([]*models.Draw, int64, error) {
	filter := buildFilter(f)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count draws: %w", err)
	}

	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"drawDate": -1}).
		SetSkip(int64(page-1) * int64(perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute find query: %w", err)
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, 0, fmt.Errorf("failed to decode draws: %w", err)
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, total, nil
}

// FindLive finds draws currently in progress, soonest draw date first
func (r *DrawRepository) FindLive(ctx context.Context, limit int) ([]*models.Draw, error) {
	filter := bson.M{"status": models.DrawStatusLive}
	opts := options.Find().SetSort(bson.M{"drawDate": 1}).SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// FindFeatured finds completed draws flagged for the highlight section
func (r *DrawRepository) FindFeatured(ctx context.Context, limit int) ([]*models.Draw, error) {
	filter := bson.M{"isFeatured": true, "status": models.DrawStatusCompleted}
	opts := options.Find().SetSort(bson.M{"drawDate": -1}).SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// FindRelated finds other completed draws from the same category
func (r *DrawRepository) FindRelated(ctx context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]*models.Draw, error) {
	filter := bson.M{
		"drawCategoryId": categoryID,
		"_id":            bson.M{"$ne": excludeID},
		"status":         models.DrawStatusCompleted,
	}
	opts := options.Find().SetSort(bson.M{"drawDate": -1}).SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *DrawRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Draw, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}

// Update updates a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	draw.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draw.ID}, draw)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperrors.ConstraintError{Op: "draw update", Err: err}
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete deletes a draw by ID
func (r *DrawRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByCategory removes every draw owned by the category
func (r *DrawRepository) DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"drawCategoryId": categoryID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
