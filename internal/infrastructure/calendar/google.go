package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Reader fetches today's timed events from Google Calendar using a stored
// OAuth token. All-day events are skipped; only timed intervals count.
type Reader struct {
	cfg        *config.GoogleConfig
	calendarID string
}

// NewReader creates a new Google Calendar reader
func NewReader(cfg *config.GoogleConfig) *Reader {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Reader{
		cfg:        cfg,
		calendarID: calendarID,
	}
}

// TodayEvents returns today's timed events ordered by start time
func (r *Reader) TodayEvents(ctx context.Context) ([]entity.CalendarEvent, error) {
	svc, err := r.service(ctx)
	if err != nil {
		return nil, err
	}

	start, end := todayWindow(time.Now())

	res, err := svc.Events.List(r.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	events := make([]entity.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		// All-day events carry Date instead of DateTime; skip them
		if item.Start == nil || item.End == nil ||
			item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}

		startTS, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		endTS, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}

		title := item.Summary
		if title == "" {
			title = "(no title)"
		}

		events = append(events, entity.CalendarEvent{
			ID:    item.Id,
			Title: title,
			Start: startTS,
			End:   endTS,
		})
	}

	return events, nil
}

// service builds the calendar API client from the stored user token
func (r *Reader) service(ctx context.Context) (*gcal.Service, error) {
	token, err := r.loadToken()
	if err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     r.cfg.ClientID,
		ClientSecret: r.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		Scopes: []string{gcal.CalendarReadonlyScope},
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

func (r *Reader) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(r.cfg.TokensPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored tokens: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse stored tokens: %w", err)
	}
	return &token, nil
}

// todayWindow returns the local-midnight-to-midnight bounds for now's day
func todayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
