package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replays a fixed sequence of responses and records requests
type scriptedClient struct {
	responses []*llm.Response
	errs      []error
	requests  []llm.Request
}

func (c *scriptedClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	i := len(c.requests)
	c.requests = append(c.requests, req)
	if i >= len(c.responses) {
		return nil, fmt.Errorf("unexpected call %d", i)
	}
	if c.errs != nil && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return c.responses[i], nil
}

func textResponse(stopReason, text string) *llm.Response {
	return &llm.Response{
		StopReason: stopReason,
		Content:    []llm.ContentBlock{{Type: llm.BlockText, Text: text}},
	}
}

func TestDirectSynthesis(t *testing.T) {
	t.Run("nil client falls back", func(t *testing.T) {
		s := NewSynthesizer(nil, "some-model", nil)
		result := s.Direct(context.Background(), 85, nil)
		assert.Equal(t, FallbackResult(85), result)
	})

	t.Run("valid payload", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, `{"mood":"great","message":"Moo!"}`)},
		}
		s := NewSynthesizer(client, "some-model", nil)

		result := s.Direct(context.Background(), 85, []int32{70, 90})
		assert.Equal(t, entity.MoodResult{PercentDone: 85, Mood: entity.MoodGreat, Message: "Moo!"}, result)

		require.Len(t, client.requests, 1)
		assert.Equal(t, "some-model", client.requests[0].Model)
		assert.Equal(t, 150, client.requests[0].MaxTokens)
		assert.InDelta(t, 0.3, client.requests[0].Temperature, 1e-9)
	})

	t.Run("percent is ours even if the model echoes another", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, `{"percent_done":10,"mood":"great","message":"Moo"}`)},
		}
		s := NewSynthesizer(client, "some-model", nil)

		result := s.Direct(context.Background(), 85, nil)
		assert.Equal(t, int32(85), result.PercentDone)
	})

	t.Run("unknown model retries once with fallback model", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{nil, textResponse(llm.StopEndTurn, `{"mood":"okay","message":"Moo"}`)},
			errs:      []error{fmt.Errorf("%w: bogus", llm.ErrUnknownModel), nil},
		}
		s := NewSynthesizer(client, "bogus-model", nil)

		result := s.Direct(context.Background(), 60, nil)
		assert.Equal(t, entity.MoodOkay, result.Mood)

		require.Len(t, client.requests, 2)
		assert.Equal(t, "bogus-model", client.requests[0].Model)
		assert.Equal(t, FallbackModel, client.requests[1].Model)
	})

	t.Run("unknown model on the fallback too gives deterministic result", func(t *testing.T) {
		unknown := fmt.Errorf("%w: bogus", llm.ErrUnknownModel)
		client := &scriptedClient{
			responses: []*llm.Response{nil, nil},
			errs:      []error{unknown, unknown},
		}
		s := NewSynthesizer(client, "bogus-model", nil)

		result := s.Direct(context.Background(), 60, nil)
		assert.Equal(t, FallbackResult(60), result)
		assert.Len(t, client.requests, 2)
	})

	t.Run("transport error falls back without retry", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{nil},
			errs:      []error{errors.New("connection refused")},
		}
		s := NewSynthesizer(client, "some-model", nil)

		result := s.Direct(context.Background(), 30, nil)
		assert.Equal(t, FallbackResult(30), result)
		assert.Len(t, client.requests, 1)
	})

	t.Run("invalid payload falls back", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, "what a lovely day")},
		}
		s := NewSynthesizer(client, "some-model", nil)

		result := s.Direct(context.Background(), 92, nil)
		assert.Equal(t, FallbackResult(92), result)
	})
}

// Fakes for the dispatcher collaborators.

type fakeCalendar struct {
	events []entity.CalendarEvent
	err    error
}

func (f *fakeCalendar) TodayEvents(context.Context) ([]entity.CalendarEvent, error) {
	return f.events, f.err
}

type fakeNotion struct{}

func (fakeNotion) QueryDatabase(context.Context, string, string) (map[string]interface{}, error) {
	return map[string]interface{}{"results": []interface{}{}}, nil
}

type fakeSlack struct{}

func (fakeSlack) ListConversations(context.Context, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{"channels": []map[string]interface{}{}}, nil
}

func (fakeSlack) FetchMessages(context.Context, string, string, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{"messages": []map[string]interface{}{}}, nil
}

type fakeInsight struct{}

func (fakeInsight) Query(context.Context, string) (map[string]interface{}, error) {
	return map[string]interface{}{"answer": "ok"}, nil
}

func testDispatcher() *tools.Dispatcher {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []entity.CalendarEvent{
		{ID: "e1", Title: "standup", Start: now, End: now.Add(30 * time.Minute)},
	}}
	return tools.NewDispatcher(cal, fakeNotion{}, fakeSlack{}, fakeInsight{})
}

func toolUseResponse(id, name string, input map[string]interface{}) *llm.Response {
	return &llm.Response{
		StopReason: llm.StopToolUse,
		Content: []llm.ContentBlock{
			{Type: llm.BlockToolUse, ID: id, Name: name, Input: input},
		},
	}
}

func TestAgentSynthesis(t *testing.T) {
	t.Run("nil client falls back", func(t *testing.T) {
		s := NewSynthesizer(nil, "some-model", testDispatcher())
		result := s.WithTools(context.Background(), nil)
		assert.Equal(t, FallbackResult(0), result)
	})

	t.Run("tool call then final answer", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{
				toolUseResponse("t1", tools.NameCalendarEvents, nil),
				textResponse(llm.StopEndTurn, `{"percent_done":73,"mood":"okay","message":"Moo-ving along!"}`),
			},
		}
		s := NewSynthesizer(client, "some-model", testDispatcher())

		result := s.WithTools(context.Background(), []int32{40, 60})
		assert.Equal(t, entity.MoodResult{PercentDone: 73, Mood: entity.MoodOkay, Message: "Moo-ving along!"}, result)

		require.Len(t, client.requests, 2)
		// Second turn carries the assistant's tool call and our tool result
		second := client.requests[1]
		require.Len(t, second.Messages, 3)
		assert.Equal(t, "assistant", second.Messages[1].Role)
		assert.Equal(t, "user", second.Messages[2].Role)

		blocks, ok := second.Messages[2].Content.([]llm.ContentBlock)
		require.True(t, ok)
		require.Len(t, blocks, 1)
		assert.Equal(t, llm.BlockToolResult, blocks[0].Type)
		assert.Equal(t, "t1", blocks[0].ToolUseID)
		assert.False(t, blocks[0].IsError)
	})

	t.Run("unknown tool becomes error-tagged result", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{
				toolUseResponse("t1", "open_barn_door", nil),
				textResponse(llm.StopEndTurn, `{"percent_done":0,"mood":"low","message":"Hmm"}`),
			},
		}
		s := NewSynthesizer(client, "some-model", testDispatcher())

		result := s.WithTools(context.Background(), nil)
		assert.Equal(t, entity.MoodLow, result.Mood)

		require.Len(t, client.requests, 2)
		blocks := client.requests[1].Messages[2].Content.([]llm.ContentBlock)
		require.Len(t, blocks, 1)
		assert.True(t, blocks[0].IsError)
		assert.Contains(t, blocks[0].Content, "unknown tool")
	})

	t.Run("final answer without valid payload", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{textResponse(llm.StopEndTurn, "all done, nice work")},
		}
		s := NewSynthesizer(client, "some-model", testDispatcher())

		result := s.WithTools(context.Background(), nil)
		assert.Equal(t, int32(0), result.PercentDone)
		assert.Equal(t, entity.MoodLow, result.Mood)
		assert.Equal(t, unableToAnalyzeMessage, result.Message)
	})

	t.Run("client error ends the run", func(t *testing.T) {
		client := &scriptedClient{
			responses: []*llm.Response{nil},
			errs:      []error{errors.New("boom")},
		}
		s := NewSynthesizer(client, "some-model", testDispatcher())

		result := s.WithTools(context.Background(), nil)
		assert.Equal(t, unableToAnalyzeMessage, result.Message)
	})

	t.Run("never-ending tool use hits the turn cap", func(t *testing.T) {
		responses := make([]*llm.Response, MaxAgentTurns)
		for i := range responses {
			responses[i] = toolUseResponse(fmt.Sprintf("t%d", i), tools.NameCalendarEvents, nil)
		}
		client := &scriptedClient{responses: responses}
		s := NewSynthesizer(client, "some-model", testDispatcher())

		result := s.WithTools(context.Background(), nil)
		assert.Equal(t, tookTooLongMessage, result.Message)
		assert.Equal(t, entity.MoodLow, result.Mood)
		assert.Len(t, client.requests, MaxAgentTurns)
	})
}
