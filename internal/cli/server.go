package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"mock-exam-service/internal/app"
	"mock-exam-service/internal/config"
	"mock-exam-service/internal/domain"
	"mock-exam-service/internal/infra/file"
	"mock-exam-service/internal/infra/memory"
	pgstore "mock-exam-service/internal/infra/postgres"
	redisstore "mock-exam-service/internal/infra/redis"
	transport "mock-exam-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the exam server",
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
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
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

	loader, closeLoader, err := newRoundLoader(ctx, cfg, rules)
	if err != nil {
		return err
	}
	defer closeLoader()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	var rounds app.RoundRepository
	if redisClient != nil {
		rounds = redisstore.NewRoundRepository(redisClient, loader, config.TTLDuration(cfg.Redis.TTL, contentTTL))
	} else {
		rounds = memory.NewRoundRepository(loader, contentTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Session.IdleTTL, 2*time.Hour))
	} else {
		store = memory.NewSessionStore()
	}
	service := app.NewExamService(store, rounds, rules)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service),
		ReadTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting exam service",
			"addr", server.Addr,
			"questions", rules.TotalQuestions,
			"minutes", int(rules.Duration/time.Minute))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRoundLoader picks the content source: Postgres, then a catalog file, then
// a generated demo round.
func newRoundLoader(ctx context.Context, cfg config.Config, rules domain.ExamRules) (memory.RoundLoader, func(), error) {
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pgstore.NewRoundLoader(pool), pool.Close, nil
	case cfg.Content.Path != "":
		if _, err := file.ReadCatalog(cfg.Content.Path); err != nil {
			return nil, nil, err
		}
		return file.NewCatalogLoader(cfg.Content.Path), func() {}, nil
	default:
		slog.Warn("no content source configured, serving demo round")
		return memory.NewStaticRoundLoader(sampleRounds(rules)), func() {}, nil
	}
}

// sampleRounds generates one complete round so the exam can be tried without a catalog.
func sampleRounds(rules domain.ExamRules) map[int]domain.Round {
	round := domain.Round{
		ID:        1,
		AnswerKey: make([]int, rules.TotalQuestions),
		Questions: make(map[int]domain.Question, rules.TotalQuestions),
	}
	for q := 1; q <= rules.TotalQuestions; q++ {
		subject, _ := rules.SubjectFor(q)
		round.AnswerKey[q-1] = (q*3)%domain.ChoiceCount + 1
		question := domain.Question{
			Number: q,
			Text:   fmt.Sprintf("[%s] Sample question %d", subject.Name, q),
		}
		for c := range question.Choices {
			question.Choices[c] = fmt.Sprintf("Option %d", c+1)
		}
		round.Questions[q] = question
	}
	return map[int]domain.Round{round.ID: round}
}
