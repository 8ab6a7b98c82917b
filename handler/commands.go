package handler

import (
	"context"
	"fmt"

	"QuizBot/callback"
	"QuizBot/model"
	"QuizBot/render"

	"github.com/go-telegram/bot/models"
)

// Stateless commands. None of them read or change the user's session.

func (h *QuizBotHandler) start(ctx context.Context, r *reply) {
	if err := r.sendHTML(ctx, welcomeText, nil); err != nil {
		return
	}
	r.send(ctx, welcomeFooter, filterKeyboard())
}

func (h *QuizBotHandler) instruction(ctx context.Context, r *reply) {
	if err := r.sendHTML(ctx, instructionText, nil); err != nil {
		return
	}
	r.send(ctx, instructionFooter, filterKeyboard())
}

func (h *QuizBotHandler) today(ctx context.Context, r *reply) {
	date := h.todayDate()
	day := render.FormatDate(date)

	r.send(ctx, fmt.Sprintf(todaySearchText, day), nil)

	events, err := h.store.ListEvents(ctx, model.EventFilter{Date: date})
	h.sendEvents(ctx, r, events, err,
		fmt.Sprintf(todayEmptyText, day),
		fmt.Sprintf(dateFoundText, day, len(events)))
}

func (h *QuizBotHandler) byDate(ctx context.Context, r *reply) {
	dates, err := h.store.ListDatesWithEvents(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("error listing dates")
		r.send(ctx, datesErrorText, nil)
		return
	}
	if len(dates) == 0 {
		r.send(ctx, datesEmptyText, nil)
		return
	}

	kb, err := dateKeyboard(dates, callback.DateToken)
	if err != nil {
		r.logger.Error().Err(err).Msg("error building date keyboard")
		r.send(ctx, datesErrorText, nil)
		return
	}
	if err := r.send(ctx, chooseDateText, kb); err != nil {
		r.send(ctx, datesErrorText, nil)
	}
}

// listedDate handles a button of the /by_date list.
func (h *QuizBotHandler) listedDate(ctx context.Context, r *reply, a callback.Action) {
	day := render.FormatDate(a.Date)
	r.answer(ctx, fmt.Sprintf(dateAckText, day), false)
	r.edit(ctx, fmt.Sprintf(dateChosenHTML, day), models.ParseModeHTML)

	events, err := h.store.ListEvents(ctx, model.EventFilter{Date: a.Date})
	h.sendEvents(ctx, r, events, err,
		fmt.Sprintf(dateEmptyText, day),
		fmt.Sprintf(dateFoundText, day, len(events)))
}
