package service

import (
	"strings"
	"testing"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoodPayload(t *testing.T) {
	t.Run("strict JSON", func(t *testing.T) {
		result, err := ParseMoodPayload(`{"mood":"great","message":"Moo!"}`, 85)
		require.NoError(t, err)
		assert.Equal(t, int32(85), result.PercentDone)
		assert.Equal(t, entity.MoodGreat, result.Mood)
		assert.Equal(t, "Moo!", result.Message)
	})

	t.Run("mood is normalized", func(t *testing.T) {
		result, err := ParseMoodPayload(`{"mood":" GREAT ","message":"Moo!"}`, 90)
		require.NoError(t, err)
		assert.Equal(t, entity.MoodGreat, result.Mood)
	})

	t.Run("unknown mood is rejected", func(t *testing.T) {
		_, err := ParseMoodPayload(`{"mood":"medium","message":"hm"}`, 50)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("missing mood is rejected", func(t *testing.T) {
		_, err := ParseMoodPayload(`{"message":"hm"}`, 50)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("JSON wrapped in prose", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"mood\":\"okay\",\"message\":\"Keep going\"}\n```"
		result, err := ParseMoodPayload(raw, 60)
		require.NoError(t, err)
		assert.Equal(t, entity.MoodOkay, result.Mood)
		assert.Equal(t, "Keep going", result.Message)
	})

	t.Run("message containing a closing brace", func(t *testing.T) {
		raw := "Sure!\n{\"mood\":\"okay\",\"message\":\"smile :-}\"}"
		result, err := ParseMoodPayload(raw, 60)
		require.NoError(t, err)
		assert.Equal(t, entity.MoodOkay, result.Mood)
		assert.Equal(t, "smile :-}", result.Message)
	})

	t.Run("no JSON at all", func(t *testing.T) {
		_, err := ParseMoodPayload("I had a great day!", 60)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("self-reported percent wins and is clamped", func(t *testing.T) {
		result, err := ParseMoodPayload(`{"percent_done":150,"mood":"great","message":"Moo"}`, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(100), result.PercentDone)
	})

	t.Run("known percent used when payload has none", func(t *testing.T) {
		result, err := ParseMoodPayload(`{"mood":"low","message":"Moo"}`, 42)
		require.NoError(t, err)
		assert.Equal(t, int32(42), result.PercentDone)
	})

	t.Run("empty message gets tier substitute", func(t *testing.T) {
		result, err := ParseMoodPayload(`{"mood":"great","message":"   "}`, 90)
		require.NoError(t, err)
		assert.Equal(t, fallbackGreatMessage, result.Message)
	})

	t.Run("long message is truncated to the limit", func(t *testing.T) {
		long := strings.Repeat("m", 150)
		result, err := ParseMoodPayload(`{"mood":"okay","message":"`+long+`"}`, 55)
		require.NoError(t, err)
		assert.Len(t, []rune(result.Message), entity.MaxMessageLen)
		assert.True(t, strings.HasSuffix(result.Message, "..."))
		assert.Equal(t, strings.Repeat("m", 117)+"...", result.Message)
	})
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", TruncateMessage("short"))

	exact := strings.Repeat("a", 120)
	assert.Equal(t, exact, TruncateMessage(exact))

	over := strings.Repeat("a", 121)
	got := TruncateMessage(over)
	assert.Len(t, []rune(got), 120)
	assert.Equal(t, strings.Repeat("a", 117)+"...", got)

	// Rune-aware: multibyte characters are not split
	cows := strings.Repeat("🐮", 130)
	got = TruncateMessage(cows)
	assert.Len(t, []rune(got), 120)
	assert.Equal(t, strings.Repeat("🐮", 117)+"...", got)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested braces", `before {"a":{"b":2}} after`, `{"a":{"b":2}}`},
		{"first of two objects", `{"a":1} {"b":2}`, `{"a":1}`},
		{"brace inside string value", `{"mood":"okay","message":"smile :-}"}`, `{"mood":"okay","message":"smile :-}"}`},
		{"open brace inside string value", `{"message":"use {id} here"} tail`, `{"message":"use {id} here"}`},
		{"escaped quote inside string", `{"message":"she said \"}\" loudly"}`, `{"message":"she said \"}\" loudly"}`},
		{"unbalanced", `{"a":1`, ""},
		{"unterminated string", `{"message":"oops`, ""},
		{"no object", "just words", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.response))
		})
	}
}

func TestFallbackResult(t *testing.T) {
	tests := []struct {
		percent int32
		mood    entity.Mood
		message string
	}{
		{0, entity.MoodLow, fallbackLowMessage},
		{49, entity.MoodLow, fallbackLowMessage},
		{50, entity.MoodOkay, fallbackOkayMessage},
		{79, entity.MoodOkay, fallbackOkayMessage},
		{80, entity.MoodGreat, fallbackGreatMessage},
		{100, entity.MoodGreat, fallbackGreatMessage},
	}

	for _, tt := range tests {
		result := FallbackResult(tt.percent)
		assert.Equal(t, tt.percent, result.PercentDone)
		assert.Equal(t, tt.mood, result.Mood)
		assert.Equal(t, tt.message, result.Message)
		assert.LessOrEqual(t, len([]rune(result.Message)), entity.MaxMessageLen)
	}

	// Out-of-range input is clamped before tier selection
	assert.Equal(t, int32(0), FallbackResult(-5).PercentDone)
	assert.Equal(t, int32(100), FallbackResult(400).PercentDone)
}
