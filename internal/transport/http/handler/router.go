package handler

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/cheyennechau/Cowlendar-backend/internal/transport/http/middleware"
)

// Router sets up HTTP routes
type Router struct {
	moodHandler        *MoodHandler
	integrationHandler *IntegrationHandler
	authMiddleware     *middleware.AuthMiddleware
	rateLimiter        *middleware.RateLimiter
	mux                *http.ServeMux
}

// NewRouter creates a new router
func NewRouter(moodHandler *MoodHandler, integrationHandler *IntegrationHandler, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) *Router {
	return &Router{
		moodHandler:        moodHandler,
		integrationHandler: integrationHandler,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		mux:                http.NewServeMux(),
	}
}

// Setup configures all routes
func (r *Router) Setup() http.Handler {

	// Mood pipeline routes (all require authentication)
	r.mux.HandleFunc("/api/v1/status", r.authMiddleware.Auth(r.moodHandler.Status))
	r.mux.HandleFunc("/api/v1/mood/refresh", r.authMiddleware.Auth(r.moodHandler.RefreshMood))
	r.mux.HandleFunc("/api/v1/mood/refresh/agent", r.authMiddleware.Auth(r.moodHandler.RefreshMoodWithAgent))
	r.mux.HandleFunc("/api/v1/events/complete", r.authMiddleware.Auth(r.moodHandler.CompleteEvent))
	r.mux.HandleFunc("/api/v1/history", r.authMiddleware.Auth(r.moodHandler.History))

	// Integration routes
	r.mux.HandleFunc("/api/v1/notion/query", r.authMiddleware.Auth(r.integrationHandler.QueryNotion))
	r.mux.HandleFunc("/api/v1/slack/summary", r.authMiddleware.Auth(r.integrationHandler.SlackSummary))

	r.mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	r.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = r.mux

	handler = middleware.Logging(handler)

	handler = r.rateLimiter.Limit(handler)

	return handler
}
