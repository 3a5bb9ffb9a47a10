package availability

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
)

// AppointmentPrompt explains the format of a manual appointment entry.
func AppointmentPrompt(date string) string {
	example := date
	if example == "" {
		example = "2025-06-10"
	}
	return "➕ <b>New appointment</b>\n\n" +
		"Send the date, start, end and a title:\n" +
		"<code>" + example + " 10:00 11:30 Griha pravesh</code>\n\n" +
		"Times are on a 30 minute grid. Use /cancel to stop."
}

// HandleNewAppointment starts the appointment dialog for the day on screen.
func HandleNewAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	h.Sessions.Update(callback.From.ID, func(s *state.Session) {
		s.State = state.StateAwaitingAppointment
		s.AppointmentID = ""
	})

	chatID, _ := chatOf(callback)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      AppointmentPrompt(editor.Date()),
		ParseMode: models.ParseModeHTML,
	})
	common.AnswerCallback(ctx, b, callback.ID, "")
}
