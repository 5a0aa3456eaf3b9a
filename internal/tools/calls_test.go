package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("calendar events takes no arguments", func(t *testing.T) {
		call, err := Decode(NameCalendarEvents, nil)
		require.NoError(t, err)
		assert.IsType(t, CalendarEventsCall{}, call)
	})

	t.Run("notion query", func(t *testing.T) {
		call, err := Decode(NameNotionQuery, map[string]interface{}{
			"database_id": "db-123",
			"filter_json": `{"property":"Done"}`,
		})
		require.NoError(t, err)
		assert.Equal(t, NotionQueryCall{DatabaseID: "db-123", FilterJSON: `{"property":"Done"}`}, call)
	})

	t.Run("notion query requires database_id", func(t *testing.T) {
		_, err := Decode(NameNotionQuery, map[string]interface{}{})
		assert.Error(t, err)
	})

	t.Run("slack channels defaults", func(t *testing.T) {
		call, err := Decode(NameSlackChannels, nil)
		require.NoError(t, err)
		assert.Equal(t, SlackChannelsCall{Types: "public_channel,private_channel", Limit: 100}, call)
	})

	t.Run("slack messages with JSON numbers", func(t *testing.T) {
		call, err := Decode(NameSlackMessages, map[string]interface{}{
			"channel_id": "C123",
			"limit":      float64(25), // JSON numbers decode as float64
		})
		require.NoError(t, err)
		assert.Equal(t, SlackMessagesCall{ChannelID: "C123", Limit: 25}, call)
	})

	t.Run("slack messages requires channel_id", func(t *testing.T) {
		_, err := Decode(NameSlackMessages, map[string]interface{}{"limit": float64(5)})
		assert.Error(t, err)
	})

	t.Run("insight query requires query", func(t *testing.T) {
		_, err := Decode(NameInsightQuery, map[string]interface{}{})
		assert.Error(t, err)

		call, err := Decode(NameInsightQuery, map[string]interface{}{"query": "how productive was I?"})
		require.NoError(t, err)
		assert.Equal(t, InsightQueryCall{Query: "how productive was I?"}, call)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := Decode("open_barn_door", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool")
	})
}
