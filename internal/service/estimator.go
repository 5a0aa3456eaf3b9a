package service

import (
	"math"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
)

// EstimatorPolicy selects how the daily completion percentage is computed.
// The two policies are not reconciled: the periodic tick credits elapsed
// time, the manual flow credits explicit user marks. Callers choose.
type EstimatorPolicy string

const (
	// PolicyDurationWeighted credits events whose interval has fully
	// elapsed, weighted by duration. In-progress events earn nothing.
	PolicyDurationWeighted EstimatorPolicy = "duration_weighted"

	// PolicyManualTally counts past events the user explicitly marked
	// completed against all past events. Unmarked events count as not done.
	PolicyManualTally EstimatorPolicy = "manual_tally"
)

// EstimatePercent computes the completion percentage for today's events at
// the given instant under the chosen policy. The result is rounded to the
// nearest integer and clamped to [0,100]. No events, or no countable
// events, yields 0.
func EstimatePercent(policy EstimatorPolicy, events []entity.CalendarEvent, now time.Time) int32 {
	switch policy {
	case PolicyManualTally:
		return manualTallyPercent(events, now)
	default:
		return durationWeightedPercent(events, now)
	}
}

func durationWeightedPercent(events []entity.CalendarEvent, now time.Time) int32 {
	var total, done time.Duration
	for i := range events {
		e := &events[i]
		if !e.IsTimed() {
			continue
		}
		total += e.Duration()
		if e.FinishedBy(now) {
			done += e.Duration()
		}
	}
	if total == 0 {
		return 0
	}
	return roundPercent(float64(done), float64(total))
}

func manualTallyPercent(events []entity.CalendarEvent, now time.Time) int32 {
	var past, done int
	for i := range events {
		e := &events[i]
		if !e.IsTimed() || !e.FinishedBy(now) {
			continue
		}
		past++
		if e.MarkedDone() {
			done++
		}
	}
	if past == 0 {
		return 0
	}
	return roundPercent(float64(done), float64(past))
}

func roundPercent(done, total float64) int32 {
	return entity.ClampPercent(int32(math.Round(100 * done / total)))
}
