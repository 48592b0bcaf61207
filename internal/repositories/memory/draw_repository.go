// Package memory provides map-backed repository implementations. They honor
// the same contracts as the mongodb package (including the draw_number and
// slug uniqueness constraints) and back the service tests and local runs
// without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawRepository is an in-memory implementation of repositories.DrawRepository
type DrawRepository struct {
	mu    sync.RWMutex
	draws map[primitive.ObjectID]*models.Draw
}

// NewDrawRepository creates an empty in-memory draw repository
func NewDrawRepository() *DrawRepository {
	return &DrawRepository{
		draws: make(map[primitive.ObjectID]*models.Draw),
	}
}

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// Create creates a new draw, enforcing draw number uniqueness the way the
// Mongo unique index does.
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.draws {
		if existing.DrawNumber == draw.DrawNumber {
			return &apperrors.ConstraintError{Op: "draw create", Err: apperrors.ErrDuplicateKey}
		}
	}
	draw.ID = primitive.NewObjectID()
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	r.draws[draw.ID] = cloneDraw(draw)
	return nil
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	draw, ok := r.draws[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneDraw(draw), nil
}

// FindByDrawNumber finds a draw by its exact draw number
func (r *DrawRepository) FindByDrawNumber(ctx context.Context, drawNumber string) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, draw := range r.draws {
		if draw.DrawNumber == drawNumber {
			return cloneDraw(draw), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List returns one page of draws matching the filter, newest draw date first
func (r *DrawRepository) List(ctx context.Context, f repositories.DrawFilter, page, perPage int) ([]*models.Draw, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(d *models.Draw) bool { return matchesFilter(d, f) })
	sortByDateDesc(matched)

	total := int64(len(matched))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(matched) {
		return []*models.Draw{}, total, nil
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// FindLive finds draws currently in progress, soonest draw date first
func (r *DrawRepository) FindLive(ctx context.Context, limit int) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.collect(func(d *models.Draw) bool { return d.Status == models.DrawStatusLive })
	sort.Slice(matched, func(i, j int) bool { return matched[i].DrawDate.Before(matched[j].DrawDate) })
	return truncate(matched, limit), nil
}

// FindFeatured finds completed draws flagged for the highlight section
func (r *DrawRepository) FindFeatured(ctx context.Context, limit int) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.collect(func(d *models.Draw) bool {
		return d.IsFeatured && d.Status == models.DrawStatusCompleted
	})
	sortByDateDesc(matched)
	return truncate(matched, limit), nil
}

// FindRelated finds other completed draws from the same category
func (r *DrawRepository) FindRelated(ctx context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.collect(func(d *models.Draw) bool {
		return d.DrawCategoryID == categoryID && d.ID != excludeID && d.Status == models.DrawStatusCompleted
	})
	sortByDateDesc(matched)
	return truncate(matched, limit), nil
}

// Update updates a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draws[draw.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for _, existing := range r.draws {
		if existing.ID != draw.ID && existing.DrawNumber == draw.DrawNumber {
			return &apperrors.ConstraintError{Op: "draw update", Err: apperrors.ErrDuplicateKey}
		}
	}
	draw.UpdatedAt = time.Now()
	r.draws[draw.ID] = cloneDraw(draw)
	return nil
}

// Delete deletes a draw by ID
func (r *DrawRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draws[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.draws, id)
	return nil
}

// DeleteByCategory removes every draw owned by the category
func (r *DrawRepository) DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, draw := range r.draws {
		if draw.DrawCategoryID == categoryID {
			delete(r.draws, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *DrawRepository) collect(keep func(*models.Draw) bool) []*models.Draw {
	matched := make([]*models.Draw, 0)
	for _, draw := range r.draws {
		if keep(draw) {
			matched = append(matched, cloneDraw(draw))
		}
	}
	return matched
}

func matchesFilter(d *models.Draw, f repositories.DrawFilter) bool {
	if f.CategoryID != nil && d.DrawCategoryID != *f.CategoryID {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.DrawNumber != "" && !strings.Contains(d.DrawNumber, f.DrawNumber) {
		return false
	}
	if f.DateFrom != nil && d.DrawDate.Before(startOfDay(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && !d.DrawDate.Before(startOfDay(*f.DateTo).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sortByDateDesc(draws []*models.Draw) {
	sort.Slice(draws, func(i, j int) bool { return draws[i].DrawDate.After(draws[j].DrawDate) })
}

func truncate(draws []*models.Draw, limit int) []*models.Draw {
	if limit > 0 && len(draws) > limit {
		return draws[:limit]
	}
	return draws
}

// cloneDraw copies a draw so callers cannot mutate stored state in place.
func cloneDraw(d *models.Draw) *models.Draw {
	c := *d
	c.WinningNumbers = append([]int(nil), d.WinningNumbers...)
	if d.SpecialNumbers != nil {
		c.SpecialNumbers = append([]int(nil), d.SpecialNumbers...)
	}
	if d.PrizeBreakdown != nil {
		c.PrizeBreakdown = make(map[string]models.PrizeTier, len(d.PrizeBreakdown))
		for tier, prize := range d.PrizeBreakdown {
			c.PrizeBreakdown[tier] = prize
		}
	}
	if d.PrizePool != nil {
		pool := *d.PrizePool
		c.PrizePool = &pool
	}
	return &c
}
