package slack

import (
	"context"
	"fmt"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"

	"github.com/slack-go/slack"
)

const defaultConversationTypes = "public_channel,private_channel"

// Reader reads conversations and history through the Slack Web API,
// trimming responses down to the fields the synthesis loop actually uses.
type Reader struct {
	api *slack.Client
}

// NewReader creates a new Slack reader
func NewReader(cfg *config.SlackConfig) *Reader {
	return &Reader{
		api: slack.New(cfg.Token),
	}
}

// ListConversations lists conversations visible to the signed-in user
func (r *Reader) ListConversations(ctx context.Context, types string, limit int, cursor string) (map[string]interface{}, error) {
	if types == "" {
		types = defaultConversationTypes
	}
	if limit <= 0 {
		limit = 100
	}

	channels, nextCursor, err := r.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:  splitTypes(types),
		Limit:  limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(channels))
	for _, ch := range channels {
		out = append(out, map[string]interface{}{
			"id":         ch.ID,
			"name":       ch.Name,
			"is_private": ch.IsPrivate,
		})
	}

	return map[string]interface{}{
		"channels":    out,
		"next_cursor": nextCursor,
	}, nil
}

// FetchMessages fetches recent history for one conversation
func (r *Reader) FetchMessages(ctx context.Context, channelID, oldestTS, latestTS string, limit int, cursor string) (map[string]interface{}, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	history, err := r.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    oldestTS,
		Latest:    latestTS,
		Limit:     limit,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(history.Messages))
	for _, msg := range history.Messages {
		out = append(out, map[string]interface{}{
			"user": msg.User,
			"text": tools.TruncateText(msg.Text, tools.MessageTextLimit),
			"ts":   msg.Timestamp,
		})
	}

	return map[string]interface{}{
		"messages":    out,
		"has_more":    history.HasMore,
		"next_cursor": history.ResponseMetaData.NextCursor,
	}, nil
}

func splitTypes(types string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(types); i++ {
		if i == len(types) || types[i] == ',' {
			if i > start {
				out = append(out, types[start:i])
			}
			start = i + 1
		}
	}
	return out
}
