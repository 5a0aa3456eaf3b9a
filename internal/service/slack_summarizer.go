package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"
)

const slackSystemPrompt = `Return ONLY compact JSON like ` +
	`{"channels":[{"id":"...","name":"...","summary":"...","key_points":["..."],"action_items":["..."]}],` +
	`"overall_insights":["..."],"suggestions":["..."]}`

// SlackSummarizer condenses recent Slack activity into a structured digest
// through one generative call. Unlike the mood pipeline it has no
// deterministic fallback; invalid output is an error to the caller.
type SlackSummarizer struct {
	slack       tools.SlackReader
	client      llm.Client
	model       string
	maxChannels int
	maxMessages int
}

// NewSlackSummarizer creates a new Slack summarizer
func NewSlackSummarizer(slack tools.SlackReader, client llm.Client, model string) *SlackSummarizer {
	return &SlackSummarizer{
		slack:       slack,
		client:      client,
		model:       model,
		maxChannels: 10,
		maxMessages: 50,
	}
}

// Summarize fetches channels and their recent messages, then asks the model
// for the channels/insights/suggestions digest.
func (s *SlackSummarizer) Summarize(ctx context.Context) (*entity.SlackDigest, error) {
	if s.client == nil {
		return nil, fmt.Errorf("no generative service configured")
	}

	transcript, err := s.collectTranscript(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		MaxTokens:   2048,
		System:      slackSystemPrompt,
		Messages:    []llm.Message{llm.UserText(transcript)},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("slack summarization failed: %w", err)
	}

	return parseSlackDigest(resp.Text())
}

// collectTranscript builds a minimized plain-text view of recent activity
func (s *SlackSummarizer) collectTranscript(ctx context.Context) (string, error) {
	channels, err := s.slack.ListConversations(ctx, "public_channel,private_channel", s.maxChannels, "")
	if err != nil {
		return "", fmt.Errorf("failed to list conversations: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Summarize the user's recent Slack activity per channel.\n\n")

	list, _ := channels["channels"].([]map[string]interface{})
	for _, ch := range list {
		id, _ := ch["id"].(string)
		name, _ := ch["name"].(string)
		if id == "" {
			continue
		}

		fmt.Fprintf(&sb, "## Channel %s (%s)\n", name, id)

		history, err := s.slack.FetchMessages(ctx, id, "", "", s.maxMessages, "")
		if err != nil {
			fmt.Fprintf(&sb, "(history unavailable: %v)\n\n", err)
			continue
		}

		messages, _ := history["messages"].([]map[string]interface{})
		for _, m := range messages {
			user, _ := m["user"].(string)
			text, _ := m["text"].(string)
			text = tools.TruncateText(text, tools.MessageTextLimit)
			fmt.Fprintf(&sb, "- %s: %s\n", user, text)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Output JSON only.")
	return sb.String(), nil
}

// parseSlackDigest applies the strict-then-extract parse to the digest schema
func parseSlackDigest(raw string) (*entity.SlackDigest, error) {
	var digest entity.SlackDigest
	if err := json.Unmarshal([]byte(raw), &digest); err == nil {
		return &digest, nil
	}

	candidate := ExtractJSON(raw)
	if candidate == "" {
		return nil, ErrInvalidPayload
	}
	if err := json.Unmarshal([]byte(candidate), &digest); err != nil {
		return nil, ErrInvalidPayload
	}
	return &digest, nil
}
