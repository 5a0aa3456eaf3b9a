package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DigestMailer sends the evening digest email
type DigestMailer interface {
	SendDigestEmail(ctx context.Context, to string, summary *entity.DaySummary, history []int32) error
}

// DigestScheduler sends the day's summary by email on a cron schedule
type DigestScheduler struct {
	moodService service.MoodService
	mailer      DigestMailer
	userID      uuid.UUID
	to          string
	cron        *cron.Cron
	cronSpec    string
}

// NewDigestScheduler creates a new digest scheduler
func NewDigestScheduler(moodService service.MoodService, mailer DigestMailer, userID uuid.UUID, to, cronSpec string) *DigestScheduler {
	if cronSpec == "" {
		cronSpec = "0 21 * * *" // 21:00 local every day
	}
	return &DigestScheduler{
		moodService: moodService,
		mailer:      mailer,
		userID:      userID,
		to:          to,
		cron:        cron.New(),
		cronSpec:    cronSpec,
	}
}

// Start starts the digest scheduler
func (d *DigestScheduler) Start() error {
	log.Printf("Starting digest scheduler with spec: %s", d.cronSpec)

	_, err := d.cron.AddFunc(d.cronSpec, func() {
		d.sendDigest()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	d.cron.Start()
	log.Println("Digest scheduler started successfully")

	return nil
}

// Stop stops the digest scheduler
func (d *DigestScheduler) Stop() {
	log.Println("Stopping digest scheduler...")
	ctx := d.cron.Stop()
	<-ctx.Done()
	log.Println("Digest scheduler stopped")
}

// sendDigest composes and sends one digest email
func (d *DigestScheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := d.moodService.Status(ctx, d.userID)
	if err != nil {
		log.Printf("Error fetching day summary for digest: %v", err)
		return
	}

	history, err := d.moodService.History(ctx, d.userID)
	if err != nil {
		log.Printf("Error fetching history for digest: %v", err)
		history = nil
	}

	if err := d.mailer.SendDigestEmail(ctx, d.to, summary, history); err != nil {
		log.Printf("Error sending digest email: %v", err)
		return
	}

	log.Printf("Digest email sent to %s for day %s", d.to, summary.Day)
}
