package repository

import (
	"context"

	"github.com/google/uuid"
)

// CompletionStore records explicit user completion decisions, keyed by
// (user, day, event). A missing key means the user made no decision.
type CompletionStore interface {
	// Get returns the recorded decision and whether one exists
	Get(ctx context.Context, userID uuid.UUID, day, eventID string) (done bool, found bool, err error)

	// Set records a decision for an event on a day
	Set(ctx context.Context, userID uuid.UUID, day, eventID string, done bool) error

	// GetAll returns every recorded decision for (user, day)
	GetAll(ctx context.Context, userID uuid.UUID, day string) (map[string]bool, error)
}
