package common

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/model"
)

// AnswerCallback answers a callback query with a toast.
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert answers a callback query with a modal alert.
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback returns the message the pressed button belongs to.
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseArg returns the part after the prefix: "av_day:2025-06-10" -> "2025-06-10".
func ParseArg(data, prefix string) (string, error) {
	if !strings.HasPrefix(data, prefix) {
		return "", ErrInvalidFormat
	}
	arg := strings.TrimPrefix(data, prefix)
	if arg == "" {
		return "", ErrInvalidFormat
	}
	return arg, nil
}

// ParseSlotArg parses a compact slot argument: "av_toggle:0900" -> "09:00".
func ParseSlotArg(data, prefix string) (model.Slot, error) {
	arg, err := ParseArg(data, prefix)
	if err != nil {
		return "", err
	}
	slot, err := model.SlotFromCompact(arg)
	if err != nil {
		return "", ErrInvalidFormat
	}
	return slot, nil
}

// EditOrSend replaces the message text, or sends a new message when there is none.
func EditOrSend(ctx context.Context, b *bot.Bot, chatID int64, msg *models.Message, text string, markup *models.InlineKeyboardMarkup) {
	if msg != nil && msg.Photo == nil {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   msg.ID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
		if err == nil {
			return
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
}
