package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// MoodTicker periodically re-runs the mood pipeline so the day summary
// stays current without anyone touching the API.
type MoodTicker struct {
	moodService service.MoodService
	userID      uuid.UUID
	cron        *cron.Cron
	interval    time.Duration
}

// NewMoodTicker creates a new mood ticker
func NewMoodTicker(moodService service.MoodService, userID uuid.UUID, tickInterval time.Duration) *MoodTicker {
	if tickInterval <= 0 {
		tickInterval = 5 * time.Minute
	}
	return &MoodTicker{
		moodService: moodService,
		userID:      userID,
		cron:        cron.New(),
		interval:    tickInterval,
	}
}

// Start starts the mood ticker
func (t *MoodTicker) Start() error {
	cronExpr := fmt.Sprintf("@every %s", t.interval.String())

	log.Printf("Starting mood ticker with interval: %s", t.interval)

	_, err := t.cron.AddFunc(cronExpr, func() {
		t.tick()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	t.cron.Start()
	log.Println("Mood ticker started successfully")

	return nil
}

// Stop stops the mood ticker
func (t *MoodTicker) Stop() {
	log.Println("Stopping mood ticker...")
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("Mood ticker stopped")
}

// tick runs one pipeline pass
func (t *MoodTicker) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := t.moodService.RefreshMood(ctx, t.userID)
	if err != nil {
		log.Printf("Error refreshing mood: %v", err)
		return
	}

	log.Printf("Mood refreshed: day=%s percent=%d mood=%s", summary.Day, summary.PercentDone, summary.Mood)
}
