package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
)

// Client forwards free-form productivity questions to an external Fetch AI
// agent endpoint and returns its structured answer.
type Client struct {
	agentURL string
	http     *http.Client
}

// NewClient creates a new insight agent client
func NewClient(cfg *config.InsightConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		agentURL: cfg.AgentURL,
		http:     &http.Client{Timeout: timeout},
	}
}

// Query sends one question to the agent
func (c *Client) Query(ctx context.Context, query string) (map[string]interface{}, error) {
	if c.agentURL == "" {
		return nil, fmt.Errorf("insight agent not configured")
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.agentURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insight agent request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("insight agent returned status %d: %s", resp.StatusCode, string(data))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		// Some agents reply with plain text; wrap it
		return map[string]interface{}{"answer": string(data)}, nil
	}
	return result, nil
}
