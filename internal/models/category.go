package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawSchedule describes when draws for a category normally take place.
// All fields are optional; a category without a schedule is still valid.
type DrawSchedule struct {
	Days     []string `bson:"days,omitempty" json:"days,omitempty"` // full weekday names, e.g. "Tuesday"
	Time     string   `bson:"time,omitempty" json:"time,omitempty"` // "HH:MM", 24-hour
	Timezone string   `bson:"timezone,omitempty" json:"timezone,omitempty"`
}

// DrawCategory represents a lottery product (e.g. "Mark Six") grouping many draws
type DrawCategory struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Color        string             `bson:"color" json:"color"`
	DrawSchedule *DrawSchedule      `bson:"drawSchedule,omitempty" json:"draw_schedule,omitempty"`
	IsActive     bool               `bson:"isActive" json:"is_active"`
	SortOrder    int                `bson:"sortOrder" json:"sort_order"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

// DefaultCategoryColor is applied when a category is created without one
const DefaultCategoryColor = "#3B82F6"
