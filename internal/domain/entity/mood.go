package entity

import "strings"

// Mood is one of three fixed tiers derived from a completion percentage
type Mood string

const (
	MoodGreat Mood = "great"
	MoodOkay  Mood = "okay"
	MoodLow   Mood = "low"
)

// ParseMood normalizes a raw mood value (trimmed, case-insensitive) and
// reports whether it is one of the three known tiers.
func ParseMood(raw string) (Mood, bool) {
	switch Mood(strings.ToLower(strings.TrimSpace(raw))) {
	case MoodGreat:
		return MoodGreat, true
	case MoodOkay:
		return MoodOkay, true
	case MoodLow:
		return MoodLow, true
	}
	return "", false
}

// MoodForPercent maps a completion percentage to its canonical tier
func MoodForPercent(percent int32) Mood {
	switch {
	case percent >= 80:
		return MoodGreat
	case percent >= 50:
		return MoodOkay
	default:
		return MoodLow
	}
}

// MaxMessageLen is the hard limit on mood message length
const MaxMessageLen = 120

// MoodResult is the fully-validated outcome of one mood synthesis run
type MoodResult struct {
	PercentDone int32
	Mood        Mood
	Message     string
}

// ClampPercent bounds a percentage to [0,100]
func ClampPercent(percent int32) int32 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
