package service

import (
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
)

// Fixed messages for the rule-based generator, one per tier.
const (
	fallbackGreatMessage = "Udderly amazing momentum! 🐮✨"
	fallbackOkayMessage  = "Keep grazing—you're over halfway! 🐄"
	fallbackLowMessage   = "Small sips add up. One task now! 🥛"
)

// Terminal messages for the tool-augmented loop.
const (
	unableToAnalyzeMessage = "Unable to analyze productivity 🐮"
	tookTooLongMessage     = "Analysis took too long 🐮"
)

// FallbackResult is the deterministic, network-free mood generator used
// whenever the generative path is unavailable or produced invalid output.
// It is side-effect-free and never fails.
func FallbackResult(percent int32) entity.MoodResult {
	percent = entity.ClampPercent(percent)
	return entity.MoodResult{
		PercentDone: percent,
		Mood:        entity.MoodForPercent(percent),
		Message:     FallbackMessage(percent),
	}
}

// FallbackMessage returns the fixed message for the percentage's tier
func FallbackMessage(percent int32) string {
	switch entity.MoodForPercent(percent) {
	case entity.MoodGreat:
		return fallbackGreatMessage
	case entity.MoodOkay:
		return fallbackOkayMessage
	default:
		return fallbackLowMessage
	}
}
