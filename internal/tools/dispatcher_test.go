package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalendar struct {
	events []entity.CalendarEvent
	err    error
}

func (s *stubCalendar) TodayEvents(context.Context) ([]entity.CalendarEvent, error) {
	return s.events, s.err
}

type stubNotion struct {
	lastDatabaseID string
	lastFilter     string
}

func (s *stubNotion) QueryDatabase(_ context.Context, databaseID, filterJSON string) (map[string]interface{}, error) {
	s.lastDatabaseID = databaseID
	s.lastFilter = filterJSON
	return map[string]interface{}{"results": []interface{}{}}, nil
}

type stubSlack struct{}

func (stubSlack) ListConversations(context.Context, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{"channels": []map[string]interface{}{{"id": "C1", "name": "general"}}}, nil
}

func (stubSlack) FetchMessages(context.Context, string, string, string, int, string) (map[string]interface{}, error) {
	return map[string]interface{}{"messages": []map[string]interface{}{}}, nil
}

type stubInsight struct{}

func (stubInsight) Query(context.Context, string) (map[string]interface{}, error) {
	return map[string]interface{}{"answer": "fine"}, nil
}

func TestDefinitionsCoverEveryTool(t *testing.T) {
	d := NewDispatcher(&stubCalendar{}, &stubNotion{}, stubSlack{}, stubInsight{})

	names := make(map[string]bool)
	for _, tool := range d.Definitions() {
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}

	for _, name := range []string{NameCalendarEvents, NameNotionQuery, NameSlackChannels, NameSlackMessages, NameInsightQuery} {
		assert.True(t, names[name], "missing tool definition: %s", name)
	}
}

func TestExecute(t *testing.T) {
	done := true
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cal := &stubCalendar{events: []entity.CalendarEvent{
		{ID: "e1", Title: "standup", Start: start, End: start.Add(30 * time.Minute), Completed: &done},
	}}
	notion := &stubNotion{}
	d := NewDispatcher(cal, notion, stubSlack{}, stubInsight{})

	t.Run("calendar events serialize marks", func(t *testing.T) {
		content, isError := d.Execute(context.Background(), NameCalendarEvents, nil)
		assert.False(t, isError)

		var out []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(content), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "e1", out[0]["id"])
		assert.Equal(t, true, out[0]["_done"])
	})

	t.Run("notion arguments pass through", func(t *testing.T) {
		_, isError := d.Execute(context.Background(), NameNotionQuery, map[string]interface{}{
			"database_id": "db-9",
			"filter_json": `{"x":1}`,
		})
		assert.False(t, isError)
		assert.Equal(t, "db-9", notion.lastDatabaseID)
		assert.Equal(t, `{"x":1}`, notion.lastFilter)
	})

	t.Run("unknown tool tags the result as an error", func(t *testing.T) {
		content, isError := d.Execute(context.Background(), "open_barn_door", nil)
		assert.True(t, isError)
		assert.Contains(t, content, "Error:")
	})

	t.Run("collaborator failure tags the result as an error", func(t *testing.T) {
		failing := NewDispatcher(&stubCalendar{err: errors.New("calendar down")}, &stubNotion{}, stubSlack{}, stubInsight{})
		content, isError := failing.Execute(context.Background(), NameCalendarEvents, nil)
		assert.True(t, isError)
		assert.Contains(t, content, "calendar down")
	})
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))

	exact := strings.Repeat("a", 10)
	assert.Equal(t, exact, TruncateText(exact, 10))

	assert.Equal(t, strings.Repeat("a", 10), TruncateText(strings.Repeat("a", 11), 10))

	// Multibyte characters are never split mid-rune
	got := TruncateText(strings.Repeat("🐮", 12), 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("🐮", 10), got)
}
