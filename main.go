package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"QuizBot/config"
	"QuizBot/handler"
	"QuizBot/repo"
	"QuizBot/server"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Minute

var botCommands = []models.BotCommand{
	{Command: "start", Description: "Приветствие и кнопки фильтров"},
	{Command: "today", Description: "Квизы на сегодня"},
	{Command: "by_date", Description: "Выбрать дату"},
	{Command: "instruction", Description: "Инструкция"},
}

func main() {
	envFile := pflag.String("env-file", ".env", "file with environment variables, ignored if missing")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("bot failed")
	}
	logger.Info().Msg("bot stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.Logger
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// The store being down is not fatal, queries report it to users.
	if err := repo.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error().Err(err).Msg("error applying migrations")
	}

	store, err := repo.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.Location)
	if err != nil {
		return err
	}
	defer store.Close()

	sink, closeSink, err := newSink(ctx, cfg.Analytics, store)
	if err != nil {
		return err
	}
	defer closeSink()
	analytics := repo.NewAnalytics(sink, cfg.Analytics.Buffer, logger)

	sessions := handler.NewSessions(cfg.SessionTTL, nil)
	h := handler.NewQuizBotHandler(store, analytics, sessions, handler.Options{
		CardDelay: cfg.CardDelay,
		Backlog:   cfg.UpdateBacklog,
		Location:  cfg.Location,
		Logger:    logger,
	})

	b, err := bot.New(cfg.BotToken,
		bot.WithDefaultHandler(h.Handler),
		bot.WithNotAsyncHandlers(),
		bot.WithErrorsHandler(func(err error) {
			logger.Error().Err(err).Msg("telegram error")
		}),
	)
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}
	setupBot(ctx, b, logger)

	// Analytics outlives the bot so interactions of the last updates are flushed.
	analyticsCtx, stopAnalytics := context.WithCancel(context.Background())
	analyticsDone := make(chan struct{})
	go func() {
		defer close(analyticsDone)
		analytics.Run(analyticsCtx)
	}()
	defer func() {
		stopAnalytics()
		<-analyticsDone
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Msg("bot started")
		b.Start(gctx)
		h.Wait()
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					logger.Debug().Int("dropped", n).Int("live", sessions.Len()).Msg("sessions swept")
				}
			}
		}
	})

	if cfg.HealthAddr != "" {
		srv := server.NewServer(cfg.HealthAddr, store, sessions.Len, logger)
		g.Go(func() error {
			logger.Info().Str("addr", cfg.HealthAddr).Msg("health server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("health server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// setupBot registers the command menu and drops updates queued while the bot
// was offline.
func setupBot(ctx context.Context, b *bot.Bot, logger zerolog.Logger) {
	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		logger.Warn().Err(err).Msg("error dropping pending updates")
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: botCommands}); err != nil {
		logger.Warn().Err(err).Msg("error setting bot commands")
	}
}

// newSink picks the analytics backend. The returned func releases it.
func newSink(ctx context.Context, cfg config.AnalyticsConfig, store *repo.PostgresStore) (repo.InteractionSink, func(), error) {
	switch cfg.Sink {
	case "postgres":
		return store, func() {}, nil
	case "firebase":
		fc, err := repo.NewFirebaseConnector(ctx, cfg.FirebaseKeyPath, cfg.FirebaseDatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing Firebase: %w", err)
		}
		return fc, func() {}, nil
	case "amqp":
		p := repo.NewAMQPPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		return p, p.Close, nil
	default:
		return repo.NopSink{}, func() {}, nil
	}
}
