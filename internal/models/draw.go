package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the status of a draw
type DrawStatus string

const (
	DrawStatusPending   DrawStatus = "pending"
	DrawStatusLive      DrawStatus = "live"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusCancelled DrawStatus = "cancelled"
)

// ValidDrawStatus reports whether s is one of the four enumerated statuses.
func ValidDrawStatus(s DrawStatus) bool {
	switch s {
	case DrawStatusPending, DrawStatusLive, DrawStatusCompleted, DrawStatusCancelled:
		return true
	}
	return false
}

// Winning numbers are bounded to the classic 1..49 ball range.
const (
	MinBallNumber = 1
	MaxBallNumber = 49
)

// PrizeTier holds the winner count and payout amount for a single prize tier.
// Tier labels (the map keys in Draw.PrizeBreakdown) are free-form, e.g.
// "first_prize", "consolation".
type PrizeTier struct {
	Winners int     `bson:"winners" json:"winners"`
	Amount  float64 `bson:"amount" json:"amount"`
}

// Draw represents a single lottery drawing event
type Draw struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	DrawCategoryID primitive.ObjectID   `bson:"drawCategoryId" json:"draw_category_id"`
	DrawNumber     string               `bson:"drawNumber" json:"draw_number"`
	DrawType       string               `bson:"drawType" json:"draw_type"` // e.g. "regular", "special"
	WinningNumbers []int                `bson:"winningNumbers" json:"winning_numbers"`
	SpecialNumbers []int                `bson:"specialNumbers,omitempty" json:"special_numbers,omitempty"`
	DrawDate       time.Time            `bson:"drawDate" json:"draw_date"`
	Status         DrawStatus           `bson:"status" json:"status"`
	PrizePool      *float64             `bson:"prizePool,omitempty" json:"prize_pool,omitempty"`
	TotalWinners   int                  `bson:"totalWinners" json:"total_winners"`
	PrizeBreakdown map[string]PrizeTier `bson:"prizeBreakdown,omitempty" json:"prize_breakdown,omitempty"`
	Notes          string               `bson:"notes,omitempty" json:"notes,omitempty"`
	IsFeatured     bool                 `bson:"isFeatured" json:"is_featured"`
	CreatedAt      time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updated_at"`

	// Category is attached on reads; it is never persisted with the draw.
	Category *DrawCategory `bson:"-" json:"category,omitempty"`
}

// DrawPage is one page of a filtered draw listing.
type DrawPage struct {
	Data        []*Draw `json:"data"`
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int64   `json:"total"`
}
