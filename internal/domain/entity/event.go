package entity

import (
	"time"
)

// CalendarEvent represents a single timed calendar entry for the current day.
// All-day events carry zero Start/End and are excluded from percentage math.
type CalendarEvent struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time

	// Completed holds an explicit user decision for this event on this day.
	// Nil means the user has not marked the event either way.
	Completed *bool
}

// IsTimed returns true if the event has a valid start/end interval
func (e *CalendarEvent) IsTimed() bool {
	return !e.Start.IsZero() && !e.End.IsZero() && e.End.After(e.Start)
}

// Duration returns the length of the event interval
func (e *CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// FinishedBy returns true if the event ended at or before the given instant
func (e *CalendarEvent) FinishedBy(now time.Time) bool {
	return !e.End.After(now)
}

// MarkedDone returns true if the user explicitly marked the event completed
func (e *CalendarEvent) MarkedDone() bool {
	return e.Completed != nil && *e.Completed
}
