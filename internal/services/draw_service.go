package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lottohub/draws-backend/internal/apperrors"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories"
	"github.com/lottohub/draws-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// PageSize is the fixed page size of the public draw listing.
const PageSize = 20

// View limits for the public landing and detail pages.
const (
	LiveDrawsLimit     = 5
	FeaturedDrawsLimit = 3
	RelatedDrawsLimit  = 5
)

// ListQuery carries the raw, untyped filter parameters from the HTTP layer.
// Every field is optional; values that don't resolve (unknown category slug,
// unknown status, unparseable date) impose no constraint rather than
// producing an empty result.
type ListQuery struct {
	Category   string
	Status     string
	DrawNumber string
	DateFrom   string
	DateTo     string
	Page       int
}

// DrawInput carries the fields of a draw create/update request. Coercion and
// validation happen here, not in the HTTP layer.
type DrawInput struct {
	DrawCategoryID string                      `json:"draw_category_id"`
	DrawNumber     string                      `json:"draw_number"`
	DrawType       string                      `json:"draw_type"`
	WinningNumbers []int                       `json:"winning_numbers"`
	SpecialNumbers []int                       `json:"special_numbers"`
	DrawDate       string                      `json:"draw_date"`
	Status         string                      `json:"status"`
	PrizePool      *float64                    `json:"prize_pool"`
	TotalWinners   int                         `json:"total_winners"`
	PrizeBreakdown map[string]models.PrizeTier `json:"prize_breakdown"`
	Notes          string                      `json:"notes"`
	IsFeatured     bool                        `json:"is_featured"`
}

// DrawService defines the draw read and admin write operations
type DrawService interface {
	ListDraws(ctx context.Context, query ListQuery) (*models.DrawPage, error)
	GetDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	LiveDraws(ctx context.Context) ([]*models.Draw, error)
	FeaturedDraws(ctx context.Context) ([]*models.Draw, error)
	RelatedDraws(ctx context.Context, draw *models.Draw) ([]*models.Draw, error)
	CreateDraw(ctx context.Context, input DrawInput) (*models.Draw, error)
	UpdateDraw(ctx context.Context, id primitive.ObjectID, input DrawInput) (*models.Draw, error)
	DeleteDraw(ctx context.Context, id primitive.ObjectID) error
}

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl handles draw-related business logic
type DrawServiceImpl struct {
	drawRepo     repositories.DrawRepository
	categoryRepo repositories.CategoryRepository
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(drawRepo repositories.DrawRepository, categoryRepo repositories.CategoryRepository) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:     drawRepo,
		categoryRepo: categoryRepo,
	}
}

// ListDraws returns a filtered, paginated view of draws with their categories
func (s *DrawServiceImpl) ListDraws(ctx context.Context, query ListQuery) (*models.DrawPage, error) {
	filter := repositories.DrawFilter{
		DrawNumber: query.DrawNumber,
	}

	if query.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, query.Category)
		switch {
		case err == nil:
			filter.CategoryID = &category.ID
		case errors.Is(err, apperrors.ErrNotFound):
			// Unknown slug filters nothing.
		default:
			return nil, fmt.Errorf("failed to resolve category filter: %w", err)
		}
	}

	if status := models.DrawStatus(query.Status); models.ValidDrawStatus(status) {
		filter.Status = status
	}

	if query.DateFrom != "" {
		if from, err := utils.ParseDate(query.DateFrom); err == nil {
			filter.DateFrom = &from
		}
	}
	if query.DateTo != "" {
		if to, err := utils.ParseDate(query.DateTo); err == nil {
			filter.DateTo = &to
		}
	}

	page := query.Page
	if page < 1 {
		page = 1
	}

	draws, total, err := s.drawRepo.List(ctx, filter, page, PageSize)
	if err != nil {
		slog.Error("Failed to list draws", "error", err)
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}

	if err := s.attachCategories(ctx, draws); err != nil {
		return nil, err
	}

	lastPage := int((total + PageSize - 1) / PageSize)
	if lastPage < 1 {
		lastPage = 1
	}

	return &models.DrawPage{
		Data:        draws,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     PageSize,
		Total:       total,
	}, nil
}

// GetDraw returns a single draw with its category attached
func (s *DrawServiceImpl) GetDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	draw, err := s.drawRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, []*models.Draw{draw}); err != nil {
		return nil, err
	}
	return draw, nil
}

// LiveDraws returns draws in progress, soonest first
func (s *DrawServiceImpl) LiveDraws(ctx context.Context) ([]*models.Draw, error) {
	draws, err := s.drawRepo.FindLive(ctx, LiveDrawsLimit)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// FeaturedDraws returns completed draws flagged for the highlight section
func (s *DrawServiceImpl) FeaturedDraws(ctx context.Context) ([]*models.Draw, error) {
	draws, err := s.drawRepo.FindFeatured(ctx, FeaturedDrawsLimit)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// RelatedDraws returns other completed draws from the same category
func (s *DrawServiceImpl) RelatedDraws(ctx context.Context, draw *models.Draw) ([]*models.Draw, error) {
	related, err := s.drawRepo.FindRelated(ctx, draw.DrawCategoryID, draw.ID, RelatedDrawsLimit)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, related); err != nil {
		return nil, err
	}
	return related, nil
}

// CreateDraw validates and persists a new draw
func (s *DrawServiceImpl) CreateDraw(ctx context.Context, input DrawInput) (*models.Draw, error) {
	draw, err := s.validateInput(ctx, input, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		slog.Error("Failed to create draw", "error", err, "drawNumber", draw.DrawNumber)
		return nil, err
	}
	slog.Info("Draw created", "drawId", draw.ID, "drawNumber", draw.DrawNumber)
	if err := s.attachCategories(ctx, []*models.Draw{draw}); err != nil {
		return nil, err
	}
	return draw, nil
}

// UpdateDraw validates and persists changes to an existing draw. The draw
// number uniqueness check excludes the draw being updated.
func (s *DrawServiceImpl) UpdateDraw(ctx context.Context, id primitive.ObjectID, input DrawInput) (*models.Draw, error) {
	existing, err := s.drawRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draw, err := s.validateInput(ctx, input, id)
	if err != nil {
		return nil, err
	}

	draw.ID = existing.ID
	draw.CreatedAt = existing.CreatedAt
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		slog.Error("Failed to update draw", "error", err, "drawId", id)
		return nil, err
	}
	slog.Info("Draw updated", "drawId", draw.ID, "drawNumber", draw.DrawNumber)
	if err := s.attachCategories(ctx, []*models.Draw{draw}); err != nil {
		return nil, err
	}
	return draw, nil
}

// DeleteDraw removes a single draw. Draws are leaf records, so there is no
// fan-out.
func (s *DrawServiceImpl) DeleteDraw(ctx context.Context, id primitive.ObjectID) error {
	if err := s.drawRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Draw deleted", "drawId", id)
	return nil
}

// validateInput coerces and validates every field before any write. selfID is
// the draw being updated, or NilObjectID on create.
func (s *DrawServiceImpl) validateInput(ctx context.Context, input DrawInput, selfID primitive.ObjectID) (*models.Draw, error) {
	verr := apperrors.NewValidationError()

	var categoryID primitive.ObjectID
	if input.DrawCategoryID == "" {
		verr.Add("draw_category_id", "Please select a draw category.")
	} else {
		parsed, err := primitive.ObjectIDFromHex(input.DrawCategoryID)
		if err != nil {
			verr.Add("draw_category_id", "The selected draw category is invalid.")
		} else if _, err := s.categoryRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				verr.Add("draw_category_id", "The selected draw category is invalid.")
			} else {
				return nil, fmt.Errorf("failed to check category: %w", err)
			}
		} else {
			categoryID = parsed
		}
	}

	switch {
	case input.DrawNumber == "":
		verr.Add("draw_number", "Draw number is required.")
	case len(input.DrawNumber) > 50:
		verr.Add("draw_number", "Draw number may not be longer than 50 characters.")
	default:
		other, err := s.drawRepo.FindByDrawNumber(ctx, input.DrawNumber)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check draw number: %w", err)
		}
		if other != nil && other.ID != selfID {
			verr.Add("draw_number", "This draw number already exists.")
		}
	}

	drawType := input.DrawType
	if drawType == "" {
		drawType = "regular"
	} else if len(drawType) > 50 {
		verr.Add("draw_type", "Draw type may not be longer than 50 characters.")
	}

	status := models.DrawStatus(input.Status)
	if input.Status == "" {
		verr.Add("status", "Draw status is required.")
	} else if !models.ValidDrawStatus(status) {
		verr.Add("status", "Status must be one of pending, live, completed or cancelled.")
	}

	// Winning numbers may be absent only while the draw is still pending.
	if len(input.WinningNumbers) == 0 && status != models.DrawStatusPending {
		verr.Add("winning_numbers", "At least one winning number is required.")
	}
	for _, n := range input.WinningNumbers {
		if n < models.MinBallNumber || n > models.MaxBallNumber {
			verr.Add("winning_numbers", "Winning numbers must be between 1 and 49.")
			break
		}
	}
	for _, n := range input.SpecialNumbers {
		if n < models.MinBallNumber || n > models.MaxBallNumber {
			verr.Add("special_numbers", "Special numbers must be between 1 and 49.")
			break
		}
	}

	var drawDate time.Time
	if input.DrawDate == "" {
		verr.Add("draw_date", "Draw date is required.")
	} else {
		parsed, err := utils.ParseDate(input.DrawDate)
		if err != nil {
			verr.Add("draw_date", "Draw date must be a valid date.")
		} else {
			drawDate = parsed
		}
	}

	if input.PrizePool != nil && *input.PrizePool < 0 {
		verr.Add("prize_pool", "Prize pool must not be negative.")
	}
	if input.TotalWinners < 0 {
		verr.Add("total_winners", "Total winners must not be negative.")
	}
	for tier, prize := range input.PrizeBreakdown {
		if prize.Winners < 0 || prize.Amount < 0 {
			verr.Add("prize_breakdown", fmt.Sprintf("Prize tier %q must not contain negative values.", tier))
			break
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &models.Draw{
		DrawCategoryID: categoryID,
		DrawNumber:     input.DrawNumber,
		DrawType:       drawType,
		WinningNumbers: input.WinningNumbers,
		SpecialNumbers: input.SpecialNumbers,
		DrawDate:       drawDate,
		Status:         status,
		PrizePool:      input.PrizePool,
		TotalWinners:   input.TotalWinners,
		PrizeBreakdown: input.PrizeBreakdown,
		Notes:          input.Notes,
		IsFeatured:     input.IsFeatured,
	}, nil
}

// attachCategories embeds each draw's category for rendering.
func (s *DrawServiceImpl) attachCategories(ctx context.Context, draws []*models.Draw) error {
	if len(draws) == 0 {
		return nil
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.DrawCategory, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}
	for _, draw := range draws {
		draw.Category = byID[draw.DrawCategoryID]
	}
	return nil
}
