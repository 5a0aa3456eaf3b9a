package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cheyennechau/Cowlendar-backend/internal/service"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"
)

// IntegrationHandler handles direct integration HTTP requests
type IntegrationHandler struct {
	notion     tools.NotionReader
	summarizer *service.SlackSummarizer
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(notion tools.NotionReader, summarizer *service.SlackSummarizer) *IntegrationHandler {
	return &IntegrationHandler{
		notion:     notion,
		summarizer: summarizer,
	}
}

// QueryNotion queries a Notion database
// @Summary Query Notion database
// @Description Run a query against a Notion database with an optional raw filter
// @Tags integrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{database_id=string,filter_json=string} true "Query request"
// @Success 200 {object} object{results=[]object}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /api/v1/notion/query [post]
func (h *IntegrationHandler) QueryNotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req struct {
		DatabaseID string `json:"database_id"`
		FilterJSON string `json:"filter_json"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.DatabaseID == "" {
		http.Error(w, "database_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.notion.QueryDatabase(r.Context(), req.DatabaseID, req.FilterJSON)
	if err != nil {
		http.Error(w, "Notion query failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// SlackSummary builds a digest of recent Slack activity
// @Summary Summarize Slack activity
// @Description Condense recent Slack conversations into a per-channel digest with insights
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{channels=[]object,overall_insights=[]string,suggestions=[]string}
// @Failure 401 {object} object{error=string}
// @Failure 502 {object} object{error=string}
// @Router /api/v1/slack/summary [get]
func (h *IntegrationHandler) SlackSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requireUserID(w, r); !ok {
		return
	}

	digest, err := h.summarizer.Summarize(r.Context())
	if err != nil {
		http.Error(w, "Slack summarization failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(digest)
}
