package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase starts a postgres container, applies the migrations and
// returns its DSN with a teardown func.
func setupTestDatabase() (string, func(context.Context) error, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("quizbot"),
		postgres.WithUsername("quizbot"),
		postgres.WithPassword("quizbot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", nil, err
	}
	teardown := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", teardown, err
	}
	if err := Migrate(dsn); err != nil {
		return "", teardown, fmt.Errorf("migrate: %w", err)
	}
	return dsn, teardown, nil
}

// setupTestBroker starts a RabbitMQ container and returns its AMQP URL with a
// teardown func.
func setupTestBroker() (string, func(context.Context) error, error) {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx,
		"rabbitmq:3.13-alpine",
		rabbitmq.WithAdminUsername("guest"),
		rabbitmq.WithAdminPassword("guest"),
	)
	if err != nil {
		return "", nil, err
	}
	teardown := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}

	url, err := container.AmqpURL(ctx)
	if err != nil {
		return "", teardown, err
	}
	return url, teardown, nil
}
