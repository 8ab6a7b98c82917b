package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// reply addresses the chat an update came from. For callback queries it also
// knows the query to acknowledge and the message that carried the keyboard.
type reply struct {
	sender   Sender
	chatID   int64
	userID   int64
	userName string

	callbackID string
	messageID  int

	logger zerolog.Logger
}

func newMessageReply(s Sender, msg *models.Message) *reply {
	return &reply{
		sender:   s,
		chatID:   msg.Chat.ID,
		userID:   msg.From.ID,
		userName: msg.From.Username,
	}
}

func newCallbackReply(s Sender, cq *models.CallbackQuery) *reply {
	r := &reply{
		sender:     s,
		chatID:     cq.From.ID,
		userID:     cq.From.ID,
		userName:   cq.From.Username,
		callbackID: cq.ID,
	}
	switch {
	case cq.Message.Message != nil:
		r.chatID = cq.Message.Message.Chat.ID
		r.messageID = cq.Message.Message.ID
	case cq.Message.InaccessibleMessage != nil:
		r.chatID = cq.Message.InaccessibleMessage.Chat.ID
	}
	return r
}

func (r *reply) send(ctx context.Context, text string, markup models.ReplyMarkup) error {
	return r.sendMode(ctx, text, "", markup)
}

func (r *reply) sendHTML(ctx context.Context, text string, markup models.ReplyMarkup) error {
	return r.sendMode(ctx, text, models.ParseModeHTML, markup)
}

func (r *reply) sendMode(ctx context.Context, text string, mode models.ParseMode, markup models.ReplyMarkup) error {
	_, err := r.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      r.chatID,
		Text:        text,
		ParseMode:   mode,
		ReplyMarkup: markup,
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("chat_id", r.chatID).Str("parse_mode", string(mode)).Msg("error sending message")
	}
	return err
}

// answer acknowledges the callback query. It is a no-op for plain messages.
func (r *reply) answer(ctx context.Context, text string, alert bool) {
	if r.callbackID == "" {
		return
	}
	_, err := r.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: r.callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("callback_id", r.callbackID).Msg("error answering callback query")
	}
}

// edit replaces the text of the message that carried the pressed keyboard,
// dropping the keyboard. Failures are only logged.
func (r *reply) edit(ctx context.Context, text string, mode models.ParseMode) {
	if r.messageID == 0 {
		return
	}
	_, err := r.sender.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: r.messageID,
		Text:      text,
		ParseMode: mode,
	})
	if err != nil {
		r.logger.Warn().Err(err).Int("message_id", r.messageID).Msg("error editing keyboard message")
	}
}
