package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/repository"
	domainservice "github.com/cheyennechau/Cowlendar-backend/internal/domain/service"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"

	"github.com/google/uuid"
)

// MoodEventPublisher announces a finished pipeline run to downstream
// consumers. Publishing is best-effort; failures never fail the run.
type MoodEventPublisher interface {
	PublishMoodUpdated(ctx context.Context, summary *entity.DaySummary) error
}

type moodService struct {
	summaries   repository.DaySummaryRepository
	completions repository.CompletionStore
	calendar    tools.CalendarReader
	ledger      *HistoryLedger
	synthesizer *Synthesizer
	publisher   MoodEventPublisher
	now         func() time.Time
}

// NewMoodService creates a new mood pipeline service
func NewMoodService(
	summaries repository.DaySummaryRepository,
	completions repository.CompletionStore,
	calendar tools.CalendarReader,
	ledger *HistoryLedger,
	synthesizer *Synthesizer,
	publisher MoodEventPublisher,
) domainservice.MoodService {
	return &moodService{
		summaries:   summaries,
		completions: completions,
		calendar:    calendar,
		ledger:      ledger,
		synthesizer: synthesizer,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *moodService) RefreshMood(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error) {
	return s.refresh(ctx, userID, PolicyDurationWeighted)
}

func (s *moodService) refresh(ctx context.Context, userID uuid.UUID, policy EstimatorPolicy) (*entity.DaySummary, error) {
	now := s.now()
	day := now.Format(entity.DayFormat)

	events, err := s.todayEvents(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	percent := EstimatePercent(policy, events, now)

	history, err := s.ledger.Window(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	result := s.synthesizer.Direct(ctx, percent, history)

	summary := s.buildSummary(userID, day, events, now, result)
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to upsert day summary: %w", err)
	}

	s.publish(ctx, summary)
	return summary, nil
}

func (s *moodService) RefreshMoodWithAgent(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error) {
	now := s.now()
	day := now.Format(entity.DayFormat)

	history, err := s.ledger.Window(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	result := s.synthesizer.WithTools(ctx, history)

	// The agent self-reports totals only through its percentage; event
	// counts stay whatever the calendar shows right now.
	events, err := s.todayEvents(ctx, userID, day)
	if err != nil {
		log.Printf("Calendar unavailable after agent run, keeping zero event counts: %v", err)
		events = nil
	}

	summary := s.buildSummary(userID, day, events, now, result)
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to upsert day summary: %w", err)
	}

	s.publish(ctx, summary)
	return summary, nil
}

func (s *moodService) Status(ctx context.Context, userID uuid.UUID) (*entity.DaySummary, error) {
	day := s.now().Format(entity.DayFormat)

	summary, err := s.summaries.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's summary: %w", err)
	}
	if summary == nil {
		return entity.EmptyDaySummary(userID, day), nil
	}
	return summary, nil
}

func (s *moodService) MarkEventDone(ctx context.Context, userID uuid.UUID, eventID string, done bool) (*entity.DaySummary, error) {
	day := s.now().Format(entity.DayFormat)

	// Repeating the same decision skips the write; the stored mark keeps
	// its original TTL.
	prev, found, err := s.completions.Get(ctx, userID, day, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion mark: %w", err)
	}
	if !found || prev != done {
		if err := s.completions.Set(ctx, userID, day, eventID, done); err != nil {
			return nil, fmt.Errorf("failed to record completion mark: %w", err)
		}
	}

	// A manual decision switches the run to the manual-tally estimator
	return s.refresh(ctx, userID, PolicyManualTally)
}

func (s *moodService) History(ctx context.Context, userID uuid.UUID) ([]int32, error) {
	day := s.now().Format(entity.DayFormat)
	return s.ledger.Window(ctx, userID, day)
}

// todayEvents polls the calendar and overlays manual completion marks
func (s *moodService) todayEvents(ctx context.Context, userID uuid.UUID, day string) ([]entity.CalendarEvent, error) {
	events, err := s.calendar.TodayEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}

	marks, err := s.completions.GetAll(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion marks: %w", err)
	}

	for i := range events {
		if done, ok := marks[events[i].ID]; ok {
			d := done
			events[i].Completed = &d
		}
	}
	return events, nil
}

func (s *moodService) buildSummary(userID uuid.UUID, day string, events []entity.CalendarEvent, now time.Time, result entity.MoodResult) *entity.DaySummary {
	var completed int32
	for i := range events {
		if events[i].FinishedBy(now) && events[i].MarkedDone() {
			completed++
		}
	}

	return &entity.DaySummary{
		ID:              uuid.New(),
		UserID:          userID,
		Day:             day,
		TotalEvents:     int32(len(events)),
		CompletedEvents: completed,
		PercentDone:     result.PercentDone,
		Mood:            result.Mood,
		Message:         result.Message,
		MilkPoints:      entity.MilkPointsFor(result.PercentDone),
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

func (s *moodService) publish(ctx context.Context, summary *entity.DaySummary) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMoodUpdated(ctx, summary); err != nil {
		log.Printf("Failed to publish mood updated event: %v", err)
	}
}
