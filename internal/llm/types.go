package llm

import (
	"context"
	"time"
)

// Client is the minimal surface of a Messages-style completion API that the
// mood pipeline needs: one call in, stop reason plus content blocks out.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Stop reasons returned by the Messages API.
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Message is one turn of a conversation. Content is either a plain string
// or a []ContentBlock, matching the wire format.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentBlock is a single block inside a message or response.
type ContentBlock struct {
	Type      string                 `json:"type"`
	Text      string                 `json:"text,omitempty"`        // text blocks
	ID        string                 `json:"id,omitempty"`          // tool_use blocks
	Name      string                 `json:"name,omitempty"`        // tool_use blocks
	Input     map[string]interface{} `json:"input,omitempty"`       // tool_use blocks
	ToolUseID string                 `json:"tool_use_id,omitempty"` // tool_result blocks
	Content   string                 `json:"content,omitempty"`     // tool_result blocks
	IsError   bool                   `json:"is_error,omitempty"`    // tool_result blocks
}

// UserText builds a single-block user message from plain text.
func UserText(text string) Message {
	return Message{Role: "user", Content: text}
}

// Tool describes a callable tool offered to the model.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Request is a Messages API request.
type Request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response is a Messages API response.
type Response struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Error      *APIError      `json:"error,omitempty"`
}

// APIError is the error envelope returned by the API.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Text concatenates all text blocks of the response.
func (r *Response) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == BlockText {
			out += block.Text
		}
	}
	return out
}

// ToolCalls returns the tool_use blocks of the response in order.
func (r *Response) ToolCalls() []ContentBlock {
	var calls []ContentBlock
	for _, block := range r.Content {
		if block.Type == BlockToolUse {
			calls = append(calls, block)
		}
	}
	return calls
}

// Config holds settings for the Anthropic client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}
