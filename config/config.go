package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	BotToken    string `validate:"required"`
	DatabaseURL string `validate:"required"`
	DBMaxConns  int32  `validate:"min=1,max=100"`

	Location   *time.Location `validate:"required"`
	CardDelay  time.Duration  `validate:"min=0"`
	SessionTTL time.Duration  `validate:"min=0"`
	// UpdateBacklog caps the updates queued per user.
	UpdateBacklog int `validate:"min=1"`

	Analytics AnalyticsConfig

	HealthAddr string
	LogLevel   string `validate:"oneof=trace debug info warn error"`
	LogFormat  string `validate:"oneof=json console"`
}

type AnalyticsConfig struct {
	Sink   string `validate:"oneof=postgres firebase amqp none"`
	Buffer int    `validate:"min=1"`

	FirebaseKeyPath     string `validate:"required_if=Sink firebase"`
	FirebaseDatabaseURL string `validate:"required_if=Sink firebase"`

	RabbitURL      string `validate:"required_if=Sink amqp"`
	RabbitExchange string `validate:"required_if=Sink amqp"`
}

// Load reads the optional env files into the process environment (existing
// variables win), then reads and validates the configuration.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	tz := getenvDefault("TIMEZONE", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	cardDelay, err := durationFromEnv("CARD_DELAY", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := durationFromEnv("SESSION_TTL", 0)
	if err != nil {
		return nil, err
	}
	maxConns, err := intFromEnv("DB_MAX_CONNS", 4, 32)
	if err != nil {
		return nil, err
	}
	buffer, err := intFromEnv("ANALYTICS_BUFFER", 256, 32)
	if err != nil {
		return nil, err
	}
	backlog, err := intFromEnv("UPDATE_BACKLOG", 32, 32)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    int32(maxConns),
		Location:      loc,
		CardDelay:     cardDelay,
		SessionTTL:    sessionTTL,
		UpdateBacklog: int(backlog),
		Analytics: AnalyticsConfig{
			Sink:                strings.ToLower(getenvDefault("ANALYTICS_SINK", "postgres")),
			Buffer:              int(buffer),
			FirebaseKeyPath:     os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH"),
			FirebaseDatabaseURL: os.Getenv("FIREBASE_DATABASE_URL"),
			RabbitURL:           os.Getenv("RABBITMQ_URL"),
			RabbitExchange:      getenvDefault("RABBITMQ_EXCHANGE", "quizbot.analytics"),
		},
		HealthAddr: getenvDefault("HEALTH_ADDR", ":8080"),
		LogLevel:   strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat:  strings.ToLower(getenvDefault("LOG_FORMAT", "json")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// intFromEnv parses the variable as a base 10 integer that fits in bitSize
// bits, falling back to def when it is unset.
func intFromEnv(key string, def int64, bitSize int) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return n, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", key, err)
	}
	return d, nil
}
