package entity

import (
	"time"

	"github.com/google/uuid"
)

// DayFormat is the canonical day key layout (YYYY-MM-DD)
const DayFormat = "2006-01-02"

// DefaultMessage greets the user before the first pipeline run of a day
const DefaultMessage = "Let's start the day 🐮"

// DaySummary is one user's productivity snapshot for a single calendar day.
// At most one row exists per (user, day); pipeline runs upsert it.
type DaySummary struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Day    string    `json:"day"` // YYYY-MM-DD

	TotalEvents     int32  `json:"total_events"`
	CompletedEvents int32  `json:"completed_events"`
	PercentDone     int32  `json:"percent_done"`
	Mood            Mood   `json:"mood"`
	Message         string `json:"message"`
	MilkPoints      int32  `json:"milk_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MilkPointsFor converts a completion percentage to milk points
func MilkPointsFor(percent int32) int32 {
	return percent / 10
}

// EmptyDaySummary returns the zero-state summary shown before any run today
func EmptyDaySummary(userID uuid.UUID, day string) *DaySummary {
	return &DaySummary{
		UserID:  userID,
		Day:     day,
		Mood:    MoodLow,
		Message: DefaultMessage,
	}
}
