package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-grading-service/internal/app"
	"quiz-grading-service/internal/config"
	"quiz-grading-service/internal/domain"
	"quiz-grading-service/internal/infra/badge"
	"quiz-grading-service/internal/infra/memory"
	pgstore "quiz-grading-service/internal/infra/postgres"
	rediscache "quiz-grading-service/internal/infra/redis"
	transport "quiz-grading-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the grading server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var (
		quizzes     app.QuizStore
		completions app.CompletionStore
		users       app.UserStore
		ledger      app.LedgerStore
	)
	if pool != nil {
		quizzes = pgstore.NewQuizStore(pool)
		completions = pgstore.NewCompletionStore(pool)
		users = pgstore.NewPointsStore(pool)
		ledger = pgstore.NewLedger(pool)
	} else {
		quizzes = memory.NewQuizStore(sampleQuizzes())
		completions = memory.NewCompletionStore()
		users = memory.NewPointsStore()
		ledger = memory.NewLedger()
	}

	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
		quizzes = rediscache.NewQuizCache(redisClient, quizzes, cacheTTL)
	}

	var badges app.BadgeService = badge.Noop{}
	if cfg.Badge.URL != "" {
		badges = badge.NewWebhook(cfg.Badge.URL)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "insecure-dev-secret"
		log.Printf("auth secret not configured, using dev default")
	}

	bus := app.NewEventBus()
	grading := app.NewGradingService(quizzes, completions, users, ledger, bus)
	authoring := app.NewAuthoringService(quizzes, completions)
	feed := transport.NewFeedHandler(bus)
	handler := transport.NewHandler(authoring, grading, feed, []byte(secret))

	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()
	go app.NewBadgeDispatcher(badges, bus).Run(dispatchCtx)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting grading service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes seeds the in-memory store when no Postgres is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:        "quiz-1",
			Title:     "Capitals of France",
			SectionID: "section-1",
			CourseID:  "course-1",
			Questions: []domain.Question{
				{
					Text:                "What is the capital of France?",
					Type:                domain.TypeQCM,
					AnswerOptions:       []string{"Paris", "Lyon"},
					AnswerSelectionType: domain.SelectionSingle,
					Key:                 domain.ChoiceKey(0),
					Points:              5,
				},
				{
					Text:   "The Seine flows through Paris.",
					Type:   domain.TypeTrueFalse,
					Key:    domain.BoolKey(true),
					Points: 3,
				},
			},
		},
	}
}
