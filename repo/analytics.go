package repo

import (
	"context"
	"time"

	"QuizBot/model"

	"github.com/rs/zerolog"
)

// InteractionSink stores one interaction. Implemented by PostgresStore,
// FirebaseConnector and AMQPPublisher.
type InteractionSink interface {
	RecordInteraction(ctx context.Context, in model.Interaction) error
}

// NopSink drops every interaction.
type NopSink struct{}

func (NopSink) RecordInteraction(context.Context, model.Interaction) error { return nil }

// Analytics queues interactions and writes them to a sink from a single
// background worker, so recording never blocks a dialogue. When the queue is
// full the interaction is dropped and logged.
type Analytics struct {
	sink    InteractionSink
	queue   chan model.Interaction
	timeout time.Duration
	logger  zerolog.Logger
}

func NewAnalytics(sink InteractionSink, buffer int, logger zerolog.Logger) *Analytics {
	if buffer <= 0 {
		buffer = 1
	}
	return &Analytics{
		sink:    sink,
		queue:   make(chan model.Interaction, buffer),
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "analytics").Logger(),
	}
}

// Record enqueues in without blocking.
func (a *Analytics) Record(_ context.Context, in model.Interaction) {
	if in.At.IsZero() {
		in.At = time.Now()
	}
	select {
	case a.queue <- in:
	default:
		a.logger.Warn().
			Int64("user_id", in.UserID).
			Str("type", in.Type).
			Msg("analytics queue full, dropping interaction")
	}
}

// Run writes queued interactions until ctx is done, then flushes whatever is
// still queued.
func (a *Analytics) Run(ctx context.Context) {
	for {
		select {
		case in := <-a.queue:
			a.write(in)
		case <-ctx.Done():
			a.flush()
			return
		}
	}
}

func (a *Analytics) flush() {
	for {
		select {
		case in := <-a.queue:
			a.write(in)
		default:
			return
		}
	}
}

func (a *Analytics) write(in model.Interaction) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.sink.RecordInteraction(ctx, in); err != nil {
		a.logger.Error().Err(err).
			Int64("user_id", in.UserID).
			Str("type", in.Type).
			Str("value", in.Value).
			Msg("failed to record interaction")
		return
	}
	a.logger.Debug().
		Int64("user_id", in.UserID).
		Str("type", in.Type).
		Str("value", in.Value).
		Msg("interaction recorded")
}
