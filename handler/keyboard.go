package handler

import (
	"time"

	"QuizBot/callback"
	"QuizBot/model"
	"QuizBot/render"

	"github.com/go-telegram/bot/models"
)

const buttonsPerRow = 2

// MaxChoiceButtons is Telegram's limit on buttons in one inline keyboard.
const MaxChoiceButtons = 100

func inlineKeyboard(buttons []models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	kb := &models.InlineKeyboardMarkup{}
	for len(buttons) > 0 {
		n := min(buttonsPerRow, len(buttons))
		kb.InlineKeyboard = append(kb.InlineKeyboard, buttons[:n])
		buttons = buttons[n:]
	}
	return kb
}

// filterKeyboard is the reply keyboard with one button per dimension.
func filterKeyboard() *models.ReplyKeyboardMarkup {
	kb := &models.ReplyKeyboardMarkup{ResizeKeyboard: true}
	for _, d := range model.Dimensions {
		kb.Keyboard = append(kb.Keyboard, []models.KeyboardButton{{Text: texts[d].Button}})
	}
	return kb
}

// choiceKeyboard lists the registry's values in listing order.
func choiceKeyboard(d model.Dimension, reg *callback.Registry) (*models.InlineKeyboardMarkup, error) {
	var buttons []models.InlineKeyboardButton
	for _, c := range reg.Choices() {
		token, err := callback.ChoiceToken(d, c.ID)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, models.InlineKeyboardButton{Text: c.Value, CallbackData: token})
	}
	return inlineKeyboard(buttons), nil
}

// dateKeyboard lists dates in the given order, building each token with tokenFor.
func dateKeyboard(dates []time.Time, tokenFor func(time.Time) (string, error)) (*models.InlineKeyboardMarkup, error) {
	var buttons []models.InlineKeyboardButton
	for _, date := range dates {
		token, err := tokenFor(date)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, models.InlineKeyboardButton{Text: render.DateLabel(date), CallbackData: token})
	}
	return inlineKeyboard(buttons), nil
}
