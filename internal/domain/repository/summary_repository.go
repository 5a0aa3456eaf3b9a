package repository

import (
	"context"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// DaySummaryRepository defines the interface for daily summary persistence
type DaySummaryRepository interface {
	// Upsert creates or replaces the summary for (user, day).
	// Same-day writes are last-write-wins; a day is never duplicated.
	Upsert(ctx context.Context, summary *entity.DaySummary) error

	// GetByUserAndDay retrieves the summary for a specific day.
	// Returns (nil, nil) when no row exists yet.
	GetByUserAndDay(ctx context.Context, userID uuid.UUID, day string) (*entity.DaySummary, error)

	// RecentPercentages returns up to limit percentages for days strictly
	// before the given day, ordered oldest to newest. Days with no row are
	// simply absent.
	RecentPercentages(ctx context.Context, userID uuid.UUID, before string, limit int32) ([]int32, error)
}
