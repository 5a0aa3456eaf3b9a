package service

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
)

// ErrInvalidPayload marks generative output that failed the output contract.
// Callers must apply the deterministic fallback in full, never patch fields.
var ErrInvalidPayload = errors.New("invalid mood payload")

// moodPayload is the JSON shape expected back from the model. percent_done
// is present only in tool-augmented mode.
type moodPayload struct {
	PercentDone *int32 `json:"percent_done"`
	Mood        string `json:"mood"`
	Message     string `json:"message"`
}

// ParseMoodPayload validates raw model output against the output contract:
// strict JSON decode first, then a balanced-brace extraction pass, then mood
// normalization, message truncation and empty-message substitution. The
// knownPercent is the deterministically computed percentage used when the
// payload carries none (direct mode) and for substitute messages.
//
// A nil error guarantees the result satisfies every MoodResult invariant.
func ParseMoodPayload(raw string, knownPercent int32) (entity.MoodResult, error) {
	payload, ok := decodeMoodPayload(raw)
	if !ok {
		return entity.MoodResult{}, ErrInvalidPayload
	}

	mood, ok := entity.ParseMood(payload.Mood)
	if !ok {
		return entity.MoodResult{}, ErrInvalidPayload
	}

	percent := knownPercent
	if payload.PercentDone != nil {
		percent = entity.ClampPercent(*payload.PercentDone)
	}

	message := strings.TrimSpace(payload.Message)
	message = TruncateMessage(message)
	if message == "" {
		message = FallbackMessage(percent)
	}

	return entity.MoodResult{
		PercentDone: percent,
		Mood:        mood,
		Message:     message,
	}, nil
}

// TruncateMessage enforces the 120-character message limit, cutting to 117
// characters plus an ellipsis marker when exceeded.
func TruncateMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= entity.MaxMessageLen {
		return message
	}
	return string(runes[:entity.MaxMessageLen-3]) + "..."
}

func decodeMoodPayload(raw string) (moodPayload, bool) {
	var payload moodPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload, true
	}

	candidate := ExtractJSON(raw)
	if candidate == "" {
		return moodPayload{}, false
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return moodPayload{}, false
	}
	return payload, true
}

// ExtractJSON finds the first balanced {...} substring in a response,
// tolerating markdown wrappers and surrounding prose. Braces inside quoted
// string values do not count toward nesting. Returns "" when no balanced
// object exists.
func ExtractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}
