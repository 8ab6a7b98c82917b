package handler

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"QuizBot/model"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

var errSend = errors.New("telegram: Bad Request: can't parse entities")

type fakeSender struct {
	mu      sync.Mutex
	sent    []bot.SendMessageParams
	edits   []bot.EditMessageTextParams
	answers []bot.AnswerCallbackQueryParams

	// reject makes SendMessage fail for matching params.
	reject func(p *bot.SendMessageParams) bool
}

func (s *fakeSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject != nil && s.reject(p) {
		return nil, errSend
	}
	s.sent = append(s.sent, *p)
	return &models.Message{ID: len(s.sent), Text: p.Text}, nil
}

func (s *fakeSender) EditMessageText(_ context.Context, p *bot.EditMessageTextParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, *p)
	return &models.Message{ID: p.MessageID, Text: p.Text}, nil
}

func (s *fakeSender) AnswerCallbackQuery(_ context.Context, p *bot.AnswerCallbackQueryParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, *p)
	return true, nil
}

func (s *fakeSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.sent {
		out = append(out, p.Text)
	}
	return out
}

func (s *fakeSender) last() bot.SendMessageParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) lastAnswer() bot.AnswerCallbackQueryParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[len(s.answers)-1]
}

func (s *fakeSender) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent, s.edits, s.answers = nil, nil, nil
}

// fakeStore answers queries from an in-memory event list.
type fakeStore struct {
	events []model.Event
	err    error
	calls  []string
}

func (f *fakeStore) column(e model.Event, d model.Dimension) *string {
	switch d {
	case model.DimensionOrganizer:
		return e.Organizer
	case model.DimensionVenue:
		return e.LocationName
	case model.DimensionCategory:
		return e.Category
	}
	return nil
}

func (f *fakeStore) ListDatesWithEvents(context.Context) ([]time.Time, error) {
	f.calls = append(f.calls, "ListDatesWithEvents")
	if f.err != nil {
		return nil, f.err
	}
	return f.dates(func(model.Event) bool { return true }), nil
}

func (f *fakeStore) ListDistinct(_ context.Context, d model.Dimension) ([]string, error) {
	f.calls = append(f.calls, "ListDistinct")
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	seen := map[string]bool{}
	for _, e := range f.events {
		if v := f.column(e, d); v != nil && *v != "" && !seen[*v] {
			seen[*v] = true
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDatesFor(_ context.Context, d model.Dimension, value string) ([]time.Time, error) {
	f.calls = append(f.calls, "ListDatesFor")
	if f.err != nil {
		return nil, f.err
	}
	return f.dates(func(e model.Event) bool {
		v := f.column(e, d)
		return v != nil && *v == value
	}), nil
}

func (f *fakeStore) ListEvents(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	f.calls = append(f.calls, "ListEvents")
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Event
	for _, e := range f.events {
		if e.Date == nil || !e.Date.Equal(filter.Date) {
			continue
		}
		if filter.Dimension != model.DimensionNone {
			if v := f.column(e, filter.Dimension); v == nil || *v != filter.Value {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// dates returns the distinct dates of matching events in event order, which
// the fixtures keep ascending.
func (f *fakeStore) dates(match func(model.Event) bool) []time.Time {
	var out []time.Time
	for _, e := range f.events {
		if e.Date == nil || !match(e) {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Equal(*e.Date) {
			continue
		}
		out = append(out, *e.Date)
	}
	return out
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []model.Interaction
}

func (r *fakeRecorder) Record(_ context.Context, in model.Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, in)
}

func (r *fakeRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, in := range r.seen {
		out = append(out, in.Type+"="+in.Value)
	}
	return out
}

func ptr(s string) *string { return &s }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

type testBot struct {
	h        *QuizBotHandler
	sender   *fakeSender
	store    *fakeStore
	recorder *fakeRecorder
	clock    time.Time
}

const testUser int64 = 42

func newTestBot(t *testing.T, store *fakeStore, ttl time.Duration) *testBot {
	t.Helper()
	tb := &testBot{
		sender:   &fakeSender{},
		store:    store,
		recorder: &fakeRecorder{},
		clock:    time.Date(2025, 5, 16, 22, 30, 0, 0, time.UTC),
	}
	now := func() time.Time { return tb.clock }
	tb.h = NewQuizBotHandler(store, tb.recorder, NewSessions(ttl, now), Options{
		Location: time.FixedZone("MSK", 3*60*60),
		Now:      now,
		Logger:   zerolog.New(io.Discard),
	})
	return tb
}

func (tb *testBot) message(text string) {
	tb.h.Handle(context.Background(), tb.sender, &models.Update{
		Message: &models.Message{
			ID:   1,
			Chat: models.Chat{ID: testUser},
			From: &models.User{ID: testUser, Username: "tester"},
			Text: text,
		},
	})
}

func (tb *testBot) press(data string) {
	tb.h.Handle(context.Background(), tb.sender, &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cq",
			From: models.User{ID: testUser, Username: "tester"},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 7, Chat: models.Chat{ID: testUser}},
			},
			Data: data,
		},
	})
}

func (tb *testBot) state() model.State {
	return tb.h.sessions.Peek(testUser)
}

// buttons returns the callback data of the last inline keyboard sent.
func (tb *testBot) buttons(t *testing.T) []string {
	t.Helper()
	kb, ok := tb.sender.last().ReplyMarkup.(*models.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("last message %q has no inline keyboard", tb.sender.last().Text)
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

func containsText(texts []string, sub string) bool {
	for _, s := range texts {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
