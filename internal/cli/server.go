package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/clock"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/metrics"
	transport "trivia-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := &resources{}
	defer res.Close()

	questions, err := buildQuestionSource(cfg, log)
	if err != nil {
		return err
	}
	scores, err := openScoreStore(ctx, cfg, res, log)
	if err != nil {
		return err
	}
	translator, err := buildTranslator(ctx, cfg, res, log)
	if err != nil {
		return err
	}
	m := metrics.New()

	engineCfg := app.Config{
		Questions:    questions,
		Scores:       scores,
		Translator:   translator,
		Clock:        clock.Real(),
		Logger:       log,
		Observer:     m,
		BatchSize:    cfg.Quiz.BatchSize,
		QuestionType: questionType(cfg),
		TimerStart:   cfg.Quiz.TimerSeconds,
		TickInterval: config.DurationOr(cfg.Quiz.Tick, app.DefaultTickInterval),
		ExpiryGrace:  config.DurationOr(cfg.Quiz.ExpiryGrace, app.DefaultExpiryGrace),
		AnswerGrace:  config.DurationOr(cfg.Quiz.AnswerGrace, app.DefaultAnswerGrace),
		AutoAdvance:  cfg.Quiz.AutoAdvance,
	}
	ws := transport.NewWSHandler(
		func() *app.Engine { return app.New(engineCfg) },
		transport.WithLogger(log.With("component", "ws")),
		transport.WithSessionObserver(m),
	)
	router := transport.NewRouter(transport.RouterConfig{
		WS:             ws,
		Scores:         scores,
		TopN:           cfg.Scores.TopN,
		Metrics:        m.Handler(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting trivia quiz server",
			"addr", server.Addr,
			"source", cfg.Source.Kind,
			"scores", cfg.Scores.Driver,
			"language", translator.Language(),
			"translation_offline", translator.Offline(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
