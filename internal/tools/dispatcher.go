package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
)

// CalendarReader fetches today's timed events for the signed-in user
type CalendarReader interface {
	TodayEvents(ctx context.Context) ([]entity.CalendarEvent, error)
}

// NotionReader queries a Notion task database
type NotionReader interface {
	QueryDatabase(ctx context.Context, databaseID string, filterJSON string) (map[string]interface{}, error)
}

// SlackReader reads conversations and message history from Slack
type SlackReader interface {
	ListConversations(ctx context.Context, types string, limit int, cursor string) (map[string]interface{}, error)
	FetchMessages(ctx context.Context, channelID, oldestTS, latestTS string, limit int, cursor string) (map[string]interface{}, error)
}

// MessageTextLimit bounds how much of each Slack message body is forwarded.
// Messages can be huge; the model only needs the gist.
const MessageTextLimit = 1000

// TruncateText cuts text to at most limit runes, never splitting a
// multibyte character.
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// InsightClient answers free-form productivity insight queries
type InsightClient interface {
	Query(ctx context.Context, query string) (map[string]interface{}, error)
}

// Dispatcher routes decoded tool calls to their collaborators. Each call is
// independently fallible; failures become error-tagged tool results at the
// caller, never pipeline failures.
type Dispatcher struct {
	calendar CalendarReader
	notion   NotionReader
	slack    SlackReader
	insight  InsightClient
}

// NewDispatcher creates a new tool dispatcher
func NewDispatcher(calendar CalendarReader, notion NotionReader, slack SlackReader, insight InsightClient) *Dispatcher {
	return &Dispatcher{
		calendar: calendar,
		notion:   notion,
		slack:    slack,
		insight:  insight,
	}
}

// Definitions returns the tool menu offered to the language model
func (d *Dispatcher) Definitions() []llm.Tool {
	return []llm.Tool{
		{
			Name:        NameCalendarEvents,
			Description: "Fetch today's Google Calendar events with completion status",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
		{
			Name:        NameNotionQuery,
			Description: "Query Notion database for tasks. Provide database_id and optional filter_json",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"database_id": map[string]interface{}{
						"type":        "string",
						"description": "Notion database ID",
					},
					"filter_json": map[string]interface{}{
						"type":        "string",
						"description": "JSON string for Notion API filter (optional)",
					},
				},
				"required": []string{"database_id"},
			},
		},
		{
			Name:        NameSlackChannels,
			Description: "List Slack conversations visible to the signed-in user",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"types": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated conversation types (default public_channel,private_channel)",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum conversations to return",
					},
					"cursor": map[string]interface{}{
						"type":        "string",
						"description": "Pagination cursor (optional)",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        NameSlackMessages,
			Description: "Fetch recent messages for one Slack conversation, optionally time-bounded",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"channel_id": map[string]interface{}{
						"type":        "string",
						"description": "Slack conversation ID",
					},
					"oldest_ts": map[string]interface{}{
						"type":        "string",
						"description": "Oldest message timestamp (optional)",
					},
					"latest_ts": map[string]interface{}{
						"type":        "string",
						"description": "Latest message timestamp (optional)",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum messages to return",
					},
					"cursor": map[string]interface{}{
						"type":        "string",
						"description": "Pagination cursor (optional)",
					},
				},
				"required": []string{"channel_id"},
			},
		},
		{
			Name:        NameInsightQuery,
			Description: "Query Fetch AI agent for productivity insights",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Query to send to Fetch AI",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// Dispatch routes a decoded call to its collaborator and returns the raw
// structured result.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (interface{}, error) {
	switch c := call.(type) {
	case CalendarEventsCall:
		events, err := d.calendar.TodayEvents(ctx)
		if err != nil {
			return nil, fmt.Errorf("calendar read failed: %w", err)
		}
		out := make([]map[string]interface{}, 0, len(events))
		for _, e := range events {
			out = append(out, map[string]interface{}{
				"id":    e.ID,
				"title": e.Title,
				"start": e.Start,
				"end":   e.End,
				"_done": e.MarkedDone(),
			})
		}
		return out, nil

	case NotionQueryCall:
		return d.notion.QueryDatabase(ctx, c.DatabaseID, c.FilterJSON)

	case SlackChannelsCall:
		return d.slack.ListConversations(ctx, c.Types, c.Limit, c.Cursor)

	case SlackMessagesCall:
		return d.slack.FetchMessages(ctx, c.ChannelID, c.OldestTS, c.LatestTS, c.Limit, c.Cursor)

	case InsightQueryCall:
		return d.insight.Query(ctx, c.Query)
	}

	return nil, fmt.Errorf("unhandled tool call %T", call)
}

// Execute decodes and dispatches a raw (name, input) invocation, serializing
// the result as JSON. Failures at any stage come back as an error-tagged
// payload, not an error: the conversation continues either way.
func (d *Dispatcher) Execute(ctx context.Context, name string, input map[string]interface{}) (content string, isError bool) {
	call, err := Decode(name, input)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	result, err := d.Dispatch(ctx, call)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return string(data), false
}
