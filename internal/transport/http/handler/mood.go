package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/service"
	"github.com/cheyennechau/Cowlendar-backend/internal/transport/http/middleware"

	"github.com/google/uuid"
)

// MoodHandler handles mood pipeline HTTP requests
type MoodHandler struct {
	moodService service.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService service.MoodService) *MoodHandler {
	return &MoodHandler{
		moodService: moodService,
	}
}

// Status returns today's summary
// @Summary Get today's status
// @Description Get today's day summary, or the zero state when no run has happened yet
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{day=string,percent_done=int,mood=string,message=string,milk_points=int}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/v1/status [get]
func (h *MoodHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.moodService.Status(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// RefreshMood runs the direct-mode pipeline
// @Summary Refresh mood
// @Description Poll today's events, estimate completion, synthesize a mood and persist the summary
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{day=string,percent_done=int,mood=string,message=string,milk_points=int}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/v1/mood/refresh [post]
func (h *MoodHandler) RefreshMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.moodService.RefreshMood(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to refresh mood", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// RefreshMoodWithAgent runs the tool-augmented pipeline
// @Summary Refresh mood with agent
// @Description Let the language model gather its own data through tools and self-report the result
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{day=string,percent_done=int,mood=string,message=string,milk_points=int}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/v1/mood/refresh/agent [post]
func (h *MoodHandler) RefreshMoodWithAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.moodService.RefreshMoodWithAgent(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to refresh mood", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// CompleteEvent records a manual completion decision
// @Summary Mark event done
// @Description Record a manual completion decision for an event and re-run the pipeline
// @Tags mood
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{event_id=string,done=boolean} true "Completion decision"
// @Success 200 {object} object{day=string,percent_done=int,mood=string,message=string,milk_points=int}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/v1/events/complete [post]
func (h *MoodHandler) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		EventID string `json:"event_id"`
		Done    *bool  `json:"done"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.EventID == "" {
		http.Error(w, "event_id is required", http.StatusBadRequest)
		return
	}

	done := true
	if req.Done != nil {
		done = *req.Done
	}

	summary, err := h.moodService.MarkEventDone(r.Context(), userID, req.EventID, done)
	if err != nil {
		http.Error(w, "Failed to mark event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// History returns recent daily percentages
// @Summary Get percentage history
// @Description Get up to the 7 most recent daily percentages before today, oldest first
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{history=[]int}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/v1/history [get]
func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	history, err := h.moodService.History(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	if history == nil {
		history = []int32{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"history": history,
	})
}

// requireUserID extracts and parses the authenticated user ID
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := middleware.GetUserID(r)
	if raw == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
