package tools

import (
	"fmt"
)

// Tool names exposed to the language model.
const (
	NameCalendarEvents = "get_calendar_events"
	NameNotionQuery    = "query_notion"
	NameSlackChannels  = "slack_list_conversations"
	NameSlackMessages  = "slack_fetch_messages"
	NameInsightQuery   = "fetch_ai_query"
)

// Call is one decoded tool invocation. The set of variants is closed:
// Decode maps a (name, input) pair to exactly one of them, and Dispatcher
// matches them exhaustively. Adding a tool means adding a variant here,
// a Decode arm, a Definitions entry, and a Dispatch arm.
type Call interface {
	toolName() string
}

// CalendarEventsCall fetches today's calendar events
type CalendarEventsCall struct{}

// NotionQueryCall queries a Notion database, optionally filtered
type NotionQueryCall struct {
	DatabaseID string
	FilterJSON string
}

// SlackChannelsCall lists Slack conversations
type SlackChannelsCall struct {
	Types  string
	Limit  int
	Cursor string
}

// SlackMessagesCall fetches message history for one conversation
type SlackMessagesCall struct {
	ChannelID string
	OldestTS  string
	LatestTS  string
	Limit     int
	Cursor    string
}

// InsightQueryCall sends a free-form query to the insight agent
type InsightQueryCall struct {
	Query string
}

func (CalendarEventsCall) toolName() string { return NameCalendarEvents }
func (NotionQueryCall) toolName() string    { return NameNotionQuery }
func (SlackChannelsCall) toolName() string  { return NameSlackChannels }
func (SlackMessagesCall) toolName() string  { return NameSlackMessages }
func (InsightQueryCall) toolName() string   { return NameInsightQuery }

// Decode maps a tool name and raw argument mapping onto a Call variant.
// Unknown names return an error that the caller reports back to the model
// as a tool-error result.
func Decode(name string, input map[string]interface{}) (Call, error) {
	switch name {
	case NameCalendarEvents:
		return CalendarEventsCall{}, nil

	case NameNotionQuery:
		databaseID := stringArg(input, "database_id")
		if databaseID == "" {
			return nil, fmt.Errorf("query_notion requires database_id")
		}
		return NotionQueryCall{
			DatabaseID: databaseID,
			FilterJSON: stringArg(input, "filter_json"),
		}, nil

	case NameSlackChannels:
		types := stringArg(input, "types")
		if types == "" {
			types = "public_channel,private_channel"
		}
		return SlackChannelsCall{
			Types:  types,
			Limit:  intArg(input, "limit", 100),
			Cursor: stringArg(input, "cursor"),
		}, nil

	case NameSlackMessages:
		channelID := stringArg(input, "channel_id")
		if channelID == "" {
			return nil, fmt.Errorf("slack_fetch_messages requires channel_id")
		}
		return SlackMessagesCall{
			ChannelID: channelID,
			OldestTS:  stringArg(input, "oldest_ts"),
			LatestTS:  stringArg(input, "latest_ts"),
			Limit:     intArg(input, "limit", 100),
			Cursor:    stringArg(input, "cursor"),
		}, nil

	case NameInsightQuery:
		query := stringArg(input, "query")
		if query == "" {
			return nil, fmt.Errorf("fetch_ai_query requires query")
		}
		return InsightQueryCall{Query: query}, nil
	}

	return nil, fmt.Errorf("unknown tool: %s", name)
}

func stringArg(input map[string]interface{}, key string) string {
	if input == nil {
		return ""
	}
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}

func intArg(input map[string]interface{}, key string, fallback int) int {
	if input == nil {
		return fallback
	}
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
