package handler

import (
	"context"
	"fmt"
	"time"

	"QuizBot/callback"
	"QuizBot/model"
	"QuizBot/render"
)

func (h *QuizBotHandler) handleCallback(ctx context.Context, r *reply, data string) {
	r.logger.Info().Str("data", data).Msg("callback")

	a, err := callback.Parse(data)
	if err != nil {
		r.logger.Warn().Err(err).Msg("unreadable callback data")
		h.sessions.Do(r.userID, func(s *Session) {
			h.fail(ctx, r, s)
		})
		return
	}

	if a.Kind == callback.KindDate {
		h.listedDate(ctx, r, a)
		return
	}

	h.sessions.Do(r.userID, func(s *Session) {
		h.advance(ctx, r, s, a)
	})
}

// advance applies a filter action to the session if it fits the current state.
func (h *QuizBotHandler) advance(ctx context.Context, r *reply, s *Session, a callback.Action) {
	if s.Expired {
		r.logger.Info().Str("kind", string(a.Kind)).Msg("session expired")
		r.answer(ctx, expiredText, true)
		r.send(ctx, expiredText, nil)
		return
	}
	if s.State.Stage == model.StageIdle || s.Choices == nil {
		// Nothing to resolve the id against, e.g. after a reset or a restart.
		r.logger.Warn().Str("kind", string(a.Kind)).Str("choice_id", a.ChoiceID).Msg("filter action without active session")
		h.fail(ctx, r, s)
		return
	}

	if !accepts(s.State, a) {
		r.logger.Warn().
			Str("state", s.State.Stage.String()).
			Str("dimension", s.State.Dimension.String()).
			Str("kind", string(a.Kind)).
			Msg("stale filter action")
		r.answer(ctx, staleAlert, true)
		return
	}

	switch a.Stage {
	case model.StageAwaitingChoice:
		h.choose(ctx, r, s, a)
	case model.StageAwaitingDate:
		h.pickDate(ctx, r, s, a)
	}
}

// accepts reports whether action a is valid in state st.
func accepts(st model.State, a callback.Action) bool {
	if st.Stage != a.Stage || st.Dimension != a.Dimension {
		return false
	}
	if st.Stage == model.StageAwaitingDate && st.ChoiceID != a.ChoiceID {
		return false
	}
	return true
}

// fail reports an unreadable selection and resets the session.
func (h *QuizBotHandler) fail(ctx context.Context, r *reply, s *Session) {
	r.answer(ctx, badTokenAlert, true)
	r.send(ctx, badTokenText, nil)
	s.Reset()
}

// enterFilter starts a filter dialogue for d, discarding any previous one.
func (h *QuizBotHandler) enterFilter(ctx context.Context, r *reply, s *Session, d model.Dimension) {
	s.Reset()
	t := texts[d]

	values, err := h.store.ListDistinct(ctx, d)
	if err != nil {
		r.logger.Error().Err(err).Str("dimension", d.String()).Msg("error listing filter values")
		r.send(ctx, t.ListError, nil)
		return
	}
	if len(values) == 0 {
		r.send(ctx, t.ListEmpty, nil)
		return
	}

	prompt := t.Prompt
	if len(values) > MaxChoiceButtons {
		r.logger.Warn().Str("dimension", d.String()).Int("values", len(values)).Msg("choice list truncated")
		values = values[:MaxChoiceButtons]
		prompt += "\n" + fmt.Sprintf(choicesTruncatedText, MaxChoiceButtons)
	}

	reg := callback.Register(callback.Prefix(d), values)
	kb, err := choiceKeyboard(d, reg)
	if err != nil {
		r.logger.Error().Err(err).Str("dimension", d.String()).Msg("error building choice keyboard")
		r.send(ctx, t.ListError, nil)
		return
	}
	if err := r.send(ctx, prompt, kb); err != nil {
		r.send(ctx, t.ListError, nil)
		return
	}

	s.Choices = reg
	s.State = model.AwaitingChoice(d)
}

// choose handles a value picked from the choice list and offers its dates.
func (h *QuizBotHandler) choose(ctx context.Context, r *reply, s *Session, a callback.Action) {
	d := a.Dimension
	t := texts[d]

	value, err := s.Choices.Resolve(a.ChoiceID)
	if err != nil {
		r.logger.Warn().Err(err).Str("choice_id", a.ChoiceID).Msg("unknown choice")
		h.fail(ctx, r, s)
		return
	}

	h.record(ctx, r, d.InteractionType(), value)
	r.answer(ctx, fmt.Sprintf(choiceAckText, value), false)
	r.edit(ctx, fmt.Sprintf(t.Chosen, value), "")

	dates, err := h.store.ListDatesFor(ctx, d, value)
	if err != nil {
		r.logger.Error().Err(err).Str("dimension", d.String()).Str("value", value).Msg("error listing dates")
		r.send(ctx, t.DatesError, nil)
		s.Reset()
		return
	}
	if len(dates) == 0 {
		r.send(ctx, fmt.Sprintf(t.DatesEmpty, value), nil)
		s.Reset()
		return
	}

	kb, err := dateKeyboard(dates, func(date time.Time) (string, error) {
		return callback.ChoiceDateToken(d, a.ChoiceID, date)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("error building date keyboard")
		r.send(ctx, t.DatesError, nil)
		s.Reset()
		return
	}
	if err := r.send(ctx, chooseDateText, kb); err != nil {
		r.send(ctx, t.DatesError, nil)
		s.Reset()
		return
	}
	s.State = model.AwaitingDate(d, a.ChoiceID)
}

// pickDate lists the events for the chosen value on the picked date and ends
// the dialogue.
func (h *QuizBotHandler) pickDate(ctx context.Context, r *reply, s *Session, a callback.Action) {
	defer s.Reset()

	d := a.Dimension
	t := texts[d]

	value, err := s.Choices.Resolve(a.ChoiceID)
	if err != nil {
		r.logger.Warn().Err(err).Str("choice_id", a.ChoiceID).Msg("unknown choice")
		h.fail(ctx, r, s)
		return
	}

	day := render.FormatDate(a.Date)
	r.answer(ctx, fmt.Sprintf(dateChoiceAckText, day), false)
	r.edit(ctx, fmt.Sprintf(dateChoiceText, day, t.Label, value), "")

	events, err := h.store.ListEvents(ctx, model.EventFilter{Date: a.Date, Dimension: d, Value: value})
	h.sendEvents(ctx, r, events, err,
		fmt.Sprintf(t.EventsEmpty, value, day),
		fmt.Sprintf(t.EventsFound, value, day, len(events)))
}
