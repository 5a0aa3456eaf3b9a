package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSlack struct{}

func (scriptedSlack) ListConversations(context.Context, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"channels": []map[string]interface{}{
			{"id": "C1", "name": "general"},
		},
	}, nil
}

func (scriptedSlack) FetchMessages(context.Context, string, string, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"messages": []map[string]interface{}{
			{"user": "U1", "text": "shipped the release", "ts": "1.0"},
		},
	}, nil
}

// longMessageSlack returns one channel with a single oversized message
type longMessageSlack struct {
	text string
}

func (s longMessageSlack) ListConversations(context.Context, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"channels": []map[string]interface{}{
			{"id": "C1", "name": "general"},
		},
	}, nil
}

func (s longMessageSlack) FetchMessages(context.Context, string, string, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"messages": []map[string]interface{}{
			{"user": "U1", "text": s.text, "ts": "1.0"},
		},
	}, nil
}

func TestSlackSummarize(t *testing.T) {
	t.Run("valid digest", func(t *testing.T) {
		digestJSON := `{"channels":[{"id":"C1","name":"general","summary":"release shipped",` +
			`"key_points":["release"],"action_items":[]}],` +
			`"overall_insights":["busy day"],"suggestions":["take a break"]}`

		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, digestJSON)},
		}
		s := NewSlackSummarizer(scriptedSlack{}, client, "some-model")

		digest, err := s.Summarize(context.Background())
		require.NoError(t, err)
		require.Len(t, digest.Channels, 1)
		assert.Equal(t, "C1", digest.Channels[0].ID)
		assert.Equal(t, "release shipped", digest.Channels[0].Summary)
		assert.Equal(t, []string{"busy day"}, digest.OverallInsights)

		// The transcript carries the channel and its messages
		require.Len(t, client.requests, 1)
		prompt := client.requests[0].Messages[0].Content.(string)
		assert.Contains(t, prompt, "general")
		assert.Contains(t, prompt, "shipped the release")
	})

	t.Run("digest wrapped in prose", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn,
				"Here is your digest:\n{\"channels\":[],\"overall_insights\":[],\"suggestions\":[]}")},
		}
		s := NewSlackSummarizer(scriptedSlack{}, client, "some-model")

		digest, err := s.Summarize(context.Background())
		require.NoError(t, err)
		assert.Empty(t, digest.Channels)
	})

	t.Run("oversized multibyte message is trimmed whole runes", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn,
				`{"channels":[],"overall_insights":[],"suggestions":[]}`)},
		}
		long := strings.Repeat("🐮", tools.MessageTextLimit+200)
		s := NewSlackSummarizer(longMessageSlack{text: long}, client, "some-model")

		_, err := s.Summarize(context.Background())
		require.NoError(t, err)

		require.Len(t, client.requests, 1)
		prompt := client.requests[0].Messages[0].Content.(string)
		assert.True(t, utf8.ValidString(prompt))
		assert.Contains(t, prompt, strings.Repeat("🐮", tools.MessageTextLimit))
		assert.NotContains(t, prompt, strings.Repeat("🐮", tools.MessageTextLimit+1))
	})

	t.Run("invalid output is an error", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, "sorry, no can do")},
		}
		s := NewSlackSummarizer(scriptedSlack{}, client, "some-model")

		_, err := s.Summarize(context.Background())
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("nil client is an error", func(t *testing.T) {
		s := NewSlackSummarizer(scriptedSlack{}, nil, "some-model")
		_, err := s.Summarize(context.Background())
		assert.Error(t, err)
	})
}
