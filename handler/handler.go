package handler

import (
	"context"
	"strings"
	"time"

	"QuizBot/model"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Sender is the part of *bot.Bot the handler talks to.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// EventStore is the query side of the event database. Every method reports
// connectivity and query failures as model.ErrStoreUnavailable. Listings come
// back already ordered and are shown as is.
type EventStore interface {
	// upcoming dates with any event, ascending, at most 30
	ListDatesWithEvents(ctx context.Context) ([]time.Time, error)
	// upcoming non-empty values of d, ascending
	ListDistinct(ctx context.Context, d model.Dimension) ([]string, error)
	// upcoming dates with d = value, ascending, at most 30
	ListDatesFor(ctx context.Context, d model.Dimension, value string) ([]time.Time, error)
	// events on a date, optionally narrowed by one dimension, by start time
	ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)
}

// Recorder takes interactions for analytics. Record must not block.
type Recorder interface {
	Record(ctx context.Context, in model.Interaction)
}

type Options struct {
	CardDelay time.Duration
	// Backlog caps the updates waiting per user, DefaultBacklog when zero.
	Backlog  int
	Location *time.Location
	Now      func() time.Time
	Logger   zerolog.Logger
}

type QuizBotHandler struct {
	store     EventStore
	analytics Recorder
	sessions  *Sessions
	queue     *userQueue

	cardDelay time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    zerolog.Logger
}

func NewQuizBotHandler(store EventStore, analytics Recorder, sessions *Sessions, opts Options) *QuizBotHandler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &QuizBotHandler{
		store:     store,
		analytics: analytics,
		sessions:  sessions,
		queue:     newUserQueue(opts.Backlog),
		cardDelay: opts.CardDelay,
		loc:       opts.Location,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Handler is the bot's default handler. Updates of one user are handled one
// after another in arrival order; different users are handled in parallel.
func (h *QuizBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID, ok := updateUserID(update)
	if !ok {
		return
	}
	if !h.queue.Submit(userID, func() { h.Handle(ctx, b, update) }) {
		h.logger.Warn().Int64("user_id", userID).Int64("update_id", update.ID).Msg("update backlog full, dropping update")
	}
}

// Wait blocks until all queued updates have been handled.
func (h *QuizBotHandler) Wait() {
	h.queue.Wait()
}

func updateUserID(update *models.Update) (int64, bool) {
	switch {
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	}
	return 0, false
}

// Handle processes one update synchronously.
func (h *QuizBotHandler) Handle(ctx context.Context, s Sender, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		r := newCallbackReply(s, update.CallbackQuery)
		r.logger = h.logger.With().Int64("user_id", r.userID).Logger()
		h.handleCallback(ctx, r, update.CallbackQuery.Data)
	case update.Message != nil && update.Message.From != nil:
		r := newMessageReply(s, update.Message)
		r.logger = h.logger.With().Int64("user_id", r.userID).Logger()
		h.handleMessage(ctx, r, update.Message.Text)
	}
}

// command returns the bot command in text without arguments or @botname.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}

func (h *QuizBotHandler) handleMessage(ctx context.Context, r *reply, text string) {
	r.logger.Info().Str("text", text).Msg("message")

	switch cmd := command(text); cmd {
	case "/start":
		h.record(ctx, r, model.InteractionCommand, cmd)
		h.start(ctx, r)
		return
	case "/today":
		h.record(ctx, r, model.InteractionCommand, cmd)
		h.today(ctx, r)
		return
	case "/by_date":
		h.record(ctx, r, model.InteractionCommand, cmd)
		h.byDate(ctx, r)
		return
	case "/instruction", "/help":
		h.record(ctx, r, model.InteractionCommand, "/instruction")
		h.instruction(ctx, r)
		return
	}

	if d, ok := dimensionForButton(strings.TrimSpace(text)); ok {
		h.record(ctx, r, model.InteractionFilterSelection, texts[d].Button)
		h.sessions.Do(r.userID, func(s *Session) {
			h.enterFilter(ctx, r, s, d)
		})
		return
	}

	r.send(ctx, unknownCommandText, nil)
}

func (h *QuizBotHandler) record(ctx context.Context, r *reply, kind, value string) {
	h.analytics.Record(ctx, model.Interaction{
		UserID:   r.userID,
		UserName: r.userName,
		Type:     kind,
		Value:    value,
		At:       h.now(),
	})
}

// todayDate returns the current calendar date as UTC midnight, the form dates
// come back from the store in.
func (h *QuizBotHandler) todayDate() time.Time {
	y, m, d := h.now().In(h.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
