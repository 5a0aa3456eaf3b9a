package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
	domainservice "github.com/cheyennechau/Cowlendar-backend/internal/domain/service"
	"github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/calendar"
	croninfra "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/cron"
	"github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/db"
	"github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/insight"
	kafkainfra "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/kafka"
	"github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/notion"
	pginfra "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/postgres"
	redisstore "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/redis"
	slackinfra "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/slack"
	smtpinfra "github.com/cheyennechau/Cowlendar-backend/internal/infrastructure/smtp"
	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
	"github.com/cheyennechau/Cowlendar-backend/internal/service"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"
	"github.com/cheyennechau/Cowlendar-backend/internal/transport/http/handler"
	"github.com/cheyennechau/Cowlendar-backend/internal/transport/http/middleware"
	"github.com/cheyennechau/Cowlendar-backend/pkg/jwtauth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App represents the application
type App struct {
	cfg             *config.Config
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *kafkainfra.Producer
	moodService     domainservice.MoodService
	summarizer      *service.SlackSummarizer
	notionClient    tools.NotionReader
	tokens          *jwtauth.TokenManager
	rateLimiter     *middleware.RateLimiter
	httpServer      *http.Server
	moodTicker      *croninfra.MoodTicker
	digestScheduler *croninfra.DigestScheduler
}

// New creates a new application
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app := &App{cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.initStorage(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}

	if err := app.initHTTPServer(); err != nil {
		return nil, err
	}

	return app, nil
}

// initStorage connects PostgreSQL, Redis and Kafka
func (a *App) initStorage(ctx context.Context) error {
	pool, err := db.NewPostgresPool(ctx, &a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.pool = pool
	log.Println("Connected to PostgreSQL")

	a.redisClient = redisstore.NewClient(
		a.cfg.Redis.Addr,
		a.cfg.Redis.Password,
		a.cfg.Redis.DB,
		a.cfg.Redis.PoolSize,
		a.cfg.Redis.MinIdleConns,
		a.cfg.Redis.DialTimeout,
		a.cfg.Redis.ReadTimeout,
		a.cfg.Redis.WriteTimeout,
	)
	if err := a.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis")

	if a.cfg.Kafka.Enabled {
		a.producer = kafkainfra.NewProducer(&a.cfg.Kafka)
		log.Println("Kafka producer initialized")
	}

	return nil
}

// initServices wires the mood pipeline and its collaborators
func (a *App) initServices() error {
	summaryRepo := pginfra.NewDaySummaryRepository(a.pool)
	completionStore := redisstore.NewCompletionStore(a.redisClient, a.cfg.Redis.MarkTTL)

	var llmClient llm.Client
	if a.cfg.Anthropic.APIKey != "" {
		llmClient = llm.NewAnthropicClient(llm.Config{
			APIKey:  a.cfg.Anthropic.APIKey,
			BaseURL: a.cfg.Anthropic.BaseURL,
			Model:   a.cfg.Anthropic.Model,
			Timeout: a.cfg.Anthropic.Timeout,
		})
	} else {
		log.Println("No Anthropic API key configured, using rule-based fallback only")
	}

	calendarReader := calendar.NewReader(&a.cfg.Google)
	notionClient := notion.NewClient(&a.cfg.Notion)
	slackReader := slackinfra.NewReader(&a.cfg.Slack)
	insightClient := insight.NewClient(&a.cfg.Insight)

	dispatcher := tools.NewDispatcher(calendarReader, notionClient, slackReader, insightClient)

	model := a.cfg.Anthropic.Model
	if model == "" {
		model = "claude-3-5-sonnet-20240620"
	}
	synthesizer := service.NewSynthesizer(llmClient, model, dispatcher)
	ledger := service.NewHistoryLedger(summaryRepo)

	var publisher service.MoodEventPublisher
	if a.producer != nil {
		publisher = a.producer
	}

	a.moodService = service.NewMoodService(
		summaryRepo,
		completionStore,
		calendarReader,
		ledger,
		synthesizer,
		publisher,
	)

	a.tokens = jwtauth.NewTokenManager(a.cfg.JWT.Secret, a.cfg.JWT.AccessTokenTTL, a.cfg.JWT.Issuer)

	userID, err := uuid.Parse(a.cfg.User.ID)
	if err != nil {
		return fmt.Errorf("invalid user id in config: %w", err)
	}

	if a.cfg.Scheduler.Enabled {
		a.moodTicker = croninfra.NewMoodTicker(a.moodService, userID, a.cfg.Scheduler.TickInterval)
	}

	if a.cfg.Digest.Enabled {
		mailer, err := smtpinfra.NewClient(&a.cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}

		to := a.cfg.Digest.To
		if to == "" {
			to = a.cfg.User.Email
		}
		a.digestScheduler = croninfra.NewDigestScheduler(a.moodService, mailer, userID, to, a.cfg.Digest.CronSpec)
	}

	// Slack summarizer shares the LLM client and model with the pipeline
	a.summarizer = service.NewSlackSummarizer(slackReader, llmClient, model)
	a.notionClient = notionClient

	return nil
}

// initHTTPServer initializes the HTTP server with all handlers and middleware
func (a *App) initHTTPServer() error {
	authMiddleware := middleware.NewAuthMiddleware(a.tokens)
	a.rateLimiter = middleware.NewRateLimiter(a.cfg.HTTP.RequestsPerMinute, a.cfg.HTTP.RateLimitCleanup)

	moodHandler := handler.NewMoodHandler(a.moodService)
	integrationHandler := handler.NewIntegrationHandler(a.notionClient, a.summarizer)

	router := handler.NewRouter(moodHandler, integrationHandler, authMiddleware, a.rateLimiter)
	httpHandler := router.Setup()

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.HTTP.Port),
		Handler:      httpHandler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	log.Printf("HTTP server configured on port %d", a.cfg.HTTP.Port)
	return nil
}

// Run starts the application
func (a *App) Run() error {
	log.Println("Starting rate limit cleanup routine")
	a.rateLimiter.StartCleanup()

	if a.moodTicker != nil {
		if err := a.moodTicker.Start(); err != nil {
			return fmt.Errorf("failed to start mood ticker: %w", err)
		}
	}

	if a.digestScheduler != nil {
		if err := a.digestScheduler.Start(); err != nil {
			return fmt.Errorf("failed to start digest scheduler: %w", err)
		}
	}

	go func() {
		log.Printf("Starting HTTP server on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if a.moodTicker != nil {
		a.moodTicker.Stop()
	}
	if a.digestScheduler != nil {
		a.digestScheduler.Stop()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Printf("Failed to close Kafka producer: %v", err)
		}
	}

	if err := a.redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}

	a.pool.Close()

	log.Println("Server stopped")
	return nil
}

// IssueToken generates an access token for the configured user. Used by the
// -issue-token flag so the single-user deployment can mint its credential.
func (a *App) IssueToken() (string, time.Time, error) {
	userID, err := uuid.Parse(a.cfg.User.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid user id in config: %w", err)
	}
	return a.tokens.GenerateAccessToken(userID)
}
