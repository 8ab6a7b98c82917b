package handler

import (
	"context"
	"time"

	"QuizBot/model"
	"QuizBot/render"
)

// sendEvents reports the outcome of an event query: an error notice, the
// empty message, or a header followed by one card per event.
func (h *QuizBotHandler) sendEvents(ctx context.Context, r *reply, events []model.Event, err error, empty, found string) {
	switch {
	case err != nil:
		r.logger.Error().Err(err).Msg("error listing events")
		r.send(ctx, storeErrorText, nil)
	case len(events) == 0:
		r.send(ctx, empty, nil)
	default:
		r.send(ctx, found, nil)
		for _, e := range events {
			h.sendCard(ctx, r, e)
		}
	}
}

// sendCard sends one event card. If Telegram rejects the HTML it falls back
// to the same text without a parse mode, then to a fixed notice.
func (h *QuizBotHandler) sendCard(ctx context.Context, r *reply, e model.Event) {
	card := render.Card(e)
	if err := r.sendHTML(ctx, card, nil); err != nil {
		r.logger.Warn().Str("card", card).Msg("html card rejected, sending plain text")
		if err := r.send(ctx, render.PlainCard(e), nil); err != nil {
			r.send(ctx, render.FailedCard, nil)
		}
	}
	h.pause(ctx)
}

// pause spaces out consecutive cards to stay under Telegram's rate limits.
func (h *QuizBotHandler) pause(ctx context.Context) {
	if h.cardDelay <= 0 {
		return
	}
	t := time.NewTimer(h.cardDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
