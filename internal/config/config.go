package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Quiz struct {
		BatchSize    int    `yaml:"batch_size"`
		TimerSeconds int    `yaml:"timer_seconds"`
		Tick         string `yaml:"tick"`
		ExpiryGrace  string `yaml:"expiry_grace"`
		AnswerGrace  string `yaml:"answer_grace"`
		AutoAdvance  bool   `yaml:"auto_advance"`
		QuestionType string `yaml:"question_type"`
	} `yaml:"quiz"`
	Source struct {
		Kind          string `yaml:"kind"`
		BaseURL       string `yaml:"base_url"`
		Timeout       string `yaml:"timeout"`
		QuestionsFile string `yaml:"questions_file"`
	} `yaml:"source"`
	Scores struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		RedisPrefix string `yaml:"redis_prefix"`
		TopN        int    `yaml:"top_n"`
	} `yaml:"scores"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		Instrument bool   `yaml:"instrument"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Translation struct {
		Language string `yaml:"language"`
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		Cache    string `yaml:"cache"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"translation"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used for every key the YAML file leaves out.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Quiz.BatchSize = 10
	cfg.Quiz.TimerSeconds = 15
	cfg.Quiz.Tick = "1s"
	cfg.Quiz.ExpiryGrace = "1s"
	cfg.Quiz.AnswerGrace = "1.5s"
	cfg.Quiz.AutoAdvance = true
	cfg.Source.Kind = "opentdb"
	cfg.Source.BaseURL = "https://opentdb.com"
	cfg.Source.Timeout = "10s"
	cfg.Scores.Driver = "sqlite"
	cfg.Scores.SQLitePath = "data/scores.db"
	cfg.Scores.RedisPrefix = "trivia:scores"
	cfg.Scores.TopN = 3
	cfg.Translation.Language = "en"
	cfg.Translation.Provider = "dictionary"
	cfg.Translation.Cache = "memory"
	cfg.Translation.CacheTTL = "24h"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load reads YAML config from path on top of Default, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Scores.Driver = getEnv("SCORES_DRIVER", c.Scores.Driver)
	c.Scores.SQLitePath = getEnv("SCORES_SQLITE_PATH", c.Scores.SQLitePath)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Postgres.URL = getEnv("POSTGRES_URL", c.Postgres.URL)
	c.Translation.Language = getEnv("TRIVIA_LANGUAGE", c.Translation.Language)
	c.Translation.APIKey = getEnv("ANTHROPIC_API_KEY", c.Translation.APIKey)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if v, ok := os.LookupEnv("QUIZ_AUTO_ADVANCE"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Quiz.AutoAdvance = b
		}
	}
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port cannot be empty")
	}
	if c.Quiz.BatchSize < 1 || c.Quiz.BatchSize > 50 {
		return fmt.Errorf("quiz.batch_size must be between 1 and 50")
	}
	if c.Quiz.TimerSeconds <= 0 {
		return fmt.Errorf("quiz.timer_seconds must be > 0")
	}
	switch c.Quiz.QuestionType {
	case "", "multiple", "boolean":
	default:
		return fmt.Errorf("quiz.question_type must be multiple or boolean, got %q", c.Quiz.QuestionType)
	}
	for key, raw := range map[string]string{
		"quiz.tick":             c.Quiz.Tick,
		"quiz.expiry_grace":     c.Quiz.ExpiryGrace,
		"quiz.answer_grace":     c.Quiz.AnswerGrace,
		"source.timeout":        c.Source.Timeout,
		"translation.cache_ttl": c.Translation.CacheTTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	switch c.Source.Kind {
	case "opentdb":
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url cannot be empty")
		}
	case "static":
	default:
		return fmt.Errorf("source.kind must be opentdb or static, got %q", c.Source.Kind)
	}

	switch c.Scores.Driver {
	case "memory":
	case "sqlite":
		if c.Scores.SQLitePath == "" {
			return fmt.Errorf("scores.sqlite_path cannot be empty")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis score driver")
		}
	case "postgres":
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for the postgres score driver")
		}
	default:
		return fmt.Errorf("scores.driver must be memory, sqlite, redis or postgres, got %q", c.Scores.Driver)
	}
	if c.Scores.TopN <= 0 {
		return fmt.Errorf("scores.top_n must be > 0")
	}

	switch c.Translation.Provider {
	case "none", "dictionary":
	case "claude":
		if c.Translation.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude translation provider")
		}
	default:
		return fmt.Errorf("translation.provider must be none, dictionary or claude, got %q", c.Translation.Provider)
	}
	switch c.Translation.Cache {
	case "", "none", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis translation cache")
		}
	default:
		return fmt.Errorf("translation.cache must be none, memory or redis, got %q", c.Translation.Cache)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// LogLevel parses log.level (debug, info, warn, error).
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DurationOr parses a duration string or returns the fallback if empty or invalid.
func DurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
