package service

import (
	"context"
	"fmt"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/repository"

	"github.com/google/uuid"
)

// HistoryWindowSize bounds the rolling history passed into mood synthesis
const HistoryWindowSize = 7

// HistoryLedger supplies the bounded window of recent daily percentages.
// The window never includes the in-progress day and never synthesizes
// entries for missing days.
type HistoryLedger struct {
	summaries repository.DaySummaryRepository
}

// NewHistoryLedger creates a new history ledger
func NewHistoryLedger(summaries repository.DaySummaryRepository) *HistoryLedger {
	return &HistoryLedger{summaries: summaries}
}

// Window returns up to the 7 most recent percentages for days strictly
// before today, ordered oldest to newest.
func (l *HistoryLedger) Window(ctx context.Context, userID uuid.UUID, today string) ([]int32, error) {
	window, err := l.summaries.RecentPercentages(ctx, userID, today, HistoryWindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load history window: %w", err)
	}
	return window, nil
}
