package postgres

import (
	"context"
	"fmt"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type daySummaryRepository struct {
	pool *pgxpool.Pool
}

// NewDaySummaryRepository creates a new PostgreSQL day summary repository
func NewDaySummaryRepository(pool *pgxpool.Pool) repository.DaySummaryRepository {
	return &daySummaryRepository{pool: pool}
}

func (r *daySummaryRepository) Upsert(ctx context.Context, summary *entity.DaySummary) error {
	query := `
		INSERT INTO day_summaries (
			id, user_id, day, total_events, completed_events,
			percent_done, mood, message, milk_points, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (user_id, day) DO UPDATE SET
			total_events = EXCLUDED.total_events,
			completed_events = EXCLUDED.completed_events,
			percent_done = EXCLUDED.percent_done,
			mood = EXCLUDED.mood,
			message = EXCLUDED.message,
			milk_points = EXCLUDED.milk_points,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		summary.ID,
		summary.UserID,
		summary.Day,
		summary.TotalEvents,
		summary.CompletedEvents,
		summary.PercentDone,
		string(summary.Mood),
		summary.Message,
		summary.MilkPoints,
		summary.CreatedAt,
		summary.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert day summary: %w", err)
	}

	return nil
}

func (r *daySummaryRepository) GetByUserAndDay(ctx context.Context, userID uuid.UUID, day string) (*entity.DaySummary, error) {
	query := `
		SELECT
			id, user_id, day, total_events, completed_events,
			percent_done, mood, message, milk_points, created_at, updated_at
		FROM day_summaries
		WHERE user_id = $1 AND day = $2
	`

	summary := &entity.DaySummary{}
	var mood string
	err := r.pool.QueryRow(ctx, query, userID, day).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.Day,
		&summary.TotalEvents,
		&summary.CompletedEvents,
		&summary.PercentDone,
		&mood,
		&summary.Message,
		&summary.MilkPoints,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No run recorded for this day yet
		}
		return nil, fmt.Errorf("failed to get day summary: %w", err)
	}

	summary.Mood = entity.Mood(mood)
	return summary, nil
}

func (r *daySummaryRepository) RecentPercentages(ctx context.Context, userID uuid.UUID, before string, limit int32) ([]int32, error) {
	query := `
		SELECT percent_done
		FROM day_summaries
		WHERE user_id = $1 AND day < $2
		ORDER BY day DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent percentages: %w", err)
	}
	defer rows.Close()

	var newestFirst []int32
	for rows.Next() {
		var percent int32
		if err := rows.Scan(&percent); err != nil {
			return nil, fmt.Errorf("failed to scan percentage: %w", err)
		}
		newestFirst = append(newestFirst, percent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate percentages: %w", err)
	}

	// Query returns newest first; callers want oldest first
	window := make([]int32, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		window = append(window, newestFirst[i])
	}
	return window, nil
}
