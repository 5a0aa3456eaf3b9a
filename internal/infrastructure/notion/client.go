package notion

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

const notionVersion = "2022-06-28"

// Client queries Notion databases over its REST API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Notion client
func NewClient(cfg *config.NotionConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.notion.com/v1"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// QueryDatabase runs a database query with an optional raw JSON filter
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filterJSON string) (map[string]interface{}, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("database_id is required")
	}

	body := map[string]interface{}{}
	if filterJSON != "" {
		var filter map[string]interface{}
		if err := json.Unmarshal([]byte(filterJSON), &filter); err != nil {
			return nil, fmt.Errorf("invalid filter_json: %w", err)
		}
		body["filter"] = filter
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query body: %w", err)
	}

	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read notion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion returned status %d: %s", resp.StatusCode, string(data))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse notion response: %w", err)
	}
	return result, nil
}
