package service

import (
	"context"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// MoodService defines the interface for the daily mood pipeline
type MoodService interface {
	// RefreshMood runs the direct-mode pipeline: poll today's events,
	// estimate the completion percentage, synthesize a mood, upsert the
	// day's summary. The summary is always fully populated.
	RefreshMood(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error)

	// RefreshMoodWithAgent runs the tool-augmented pipeline: the language
	// model gathers its own data through tools and self-reports the
	// percentage along with mood and message.
	RefreshMoodWithAgent(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error)

	// Status returns today's summary, or the zero-state summary when no
	// pipeline run has happened yet today.
	Status(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error)

	// MarkEventDone records a manual completion decision for an event and
	// re-runs the pipeline using the manual-tally estimator.
	MarkEventDone(ctx context.Context, userID uuid.UUID, eventID string, done bool) (*entity.DaySummary, error)

	// History returns up to the 7 most recent daily percentages before
	// today, oldest first.
	History(ctx context.Context, userID uuid.UUID) ([]int32, error)
}
