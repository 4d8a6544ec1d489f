package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
	"trivia-quiz/internal/infra/opentdb"
	"trivia-quiz/internal/infra/postgres"
	"trivia-quiz/internal/infra/postgres/migrations"
	"trivia-quiz/internal/infra/redis"
	"trivia-quiz/internal/infra/sqlite"
	"trivia-quiz/internal/translate"
)

// resources collects the cleanup functions of everything opened while wiring.
type resources struct {
	closers []func()
	redis   *goredis.Client
}

func (r *resources) onClose(fn func()) {
	r.closers = append(r.closers, fn)
}

func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// redisClient lazily connects to Redis; score store and translation cache share it.
func (r *resources) redisClient(ctx context.Context, cfg config.Config, log *slog.Logger) (*goredis.Client, error) {
	if r.redis != nil {
		return r.redis, nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if cfg.Redis.Instrument {
		if err := redis.Instrument(client, log); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	r.redis = client
	r.onClose(func() { _ = client.Close() })
	return client, nil
}

func buildQuestionSource(cfg config.Config, log *slog.Logger) (app.QuestionSource, error) {
	switch cfg.Source.Kind {
	case "static":
		pool := memory.SampleQuestions()
		if cfg.Source.QuestionsFile != "" {
			loaded, err := memory.LoadQuestionFile(cfg.Source.QuestionsFile)
			if err != nil {
				return nil, err
			}
			pool = loaded
		}
		log.Info("using static question pool", "questions", len(pool))
		return memory.NewStaticQuestionSource(pool), nil
	default:
		timeout := config.DurationOr(cfg.Source.Timeout, 10*time.Second)
		return opentdb.NewClient(cfg.Source.BaseURL, timeout, opentdb.WithLogger(log)), nil
	}
}

func openScoreStore(ctx context.Context, cfg config.Config, res *resources, log *slog.Logger) (app.ScoreStore, error) {
	switch cfg.Scores.Driver {
	case "memory":
		return memory.NewScoreStore(), nil
	case "sqlite":
		store, err := sqlite.Open(cfg.Scores.SQLitePath)
		if err != nil {
			return nil, err
		}
		res.onClose(func() { _ = store.Close() })
		return store, nil
	case "redis":
		client, err := res.redisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return redis.NewScoreStore(client, cfg.Scores.RedisPrefix), nil
	case "postgres":
		applied, err := migrations.Apply(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if len(applied) > 0 {
			log.Info("migrations applied", "migrations", applied)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		res.onClose(pool.Close)
		return postgres.NewScoreStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown score driver %q", cfg.Scores.Driver)
	}
}

func buildTranslator(ctx context.Context, cfg config.Config, res *resources, log *slog.Logger) (*translate.Adapter, error) {
	lang := cfg.Translation.Language
	if cfg.Translation.Provider == "none" {
		lang = "en"
	}

	var primary translate.Backend
	if cfg.Translation.Provider == "claude" {
		model := cfg.Translation.Model
		if model == "" {
			model = translate.DefaultModel
		}
		primary = translate.NewClaude(cfg.Translation.APIKey, model)

		ttl := config.DurationOr(cfg.Translation.CacheTTL, 24*time.Hour)
		switch cfg.Translation.Cache {
		case "memory":
			primary = translate.NewCache(primary, ttl)
		case "redis":
			client, err := res.redisClient(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			primary = redis.NewTranslationCache(client, primary, ttl)
		}
	}

	adapter := translate.New(lang, primary, translate.WithLogger(log.With("component", "translate")))
	if err := adapter.Prepare(ctx); err != nil {
		log.Warn("translator running offline", "err", err)
	}
	return adapter, nil
}

func questionType(cfg config.Config) domain.QuestionType {
	return domain.QuestionType(cfg.Quiz.QuestionType)
}
