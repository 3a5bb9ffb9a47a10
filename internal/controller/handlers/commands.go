package handlers

import (
	"context"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/availability"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"go.uber.org/zap"
)

// HandleStart handles /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	welcome := "👋 Hello, " + html.EscapeString(update.Message.From.FirstName) + "!\n\n" +
		"This bot manages a priest's availability calendar.\n\n" +
		"1. Select the priest: /priest &lt;id&gt;\n" +
		"2. Open the calendar: /availability\n" +
		"3. Tap a day, toggle slots and press Save\n\n" +
		"/help lists every command."

	if s, ok := h.stateManager.Get(update.Message.From.ID); ok && s.PriestID != "" {
		welcome += "\n\nCurrent priest: <code>" + html.EscapeString(s.PriestID) + "</code>"
	}

	h.sendHTML(ctx, b, update.Message.Chat.ID, welcome)
}

// HandleHelp handles /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	help := "📚 Commands\n\n" +
		"/priest &lt;id&gt; - select the priest whose calendar you manage\n" +
		"/availability - month calendar with booked and unavailable days\n" +
		"/appointment - add a manual appointment\n" +
		"/appointment &lt;id&gt; - change an existing appointment\n" +
		"/cancel - leave the current dialog and drop unsaved changes\n\n" +
		"In the day view:\n" +
		"🟢 available, ⛔ unavailable, 📌 booked.\n" +
		"Booked slots ask for confirmation before they are freed.\n" +
		"Nothing is stored until you press 💾 Save."

	h.sendHTML(ctx, b, update.Message.Chat.ID, help)
}

// HandlePriest handles /priest <id>
func (h *Handlers) HandlePriest(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	priestID := commandArg(update.Message.Text)
	if priestID == "" {
		h.stateManager.SetState(telegramID, state.StateAwaitingPriestID)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🙏 Send the priest ID.\n\nUse /cancel to stop.")
		return
	}

	h.selectPriest(ctx, b, update.Message.Chat.ID, telegramID, priestID)
}

// HandleAvailability handles /availability
func (h *Handlers) HandleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	err := availability.ShowMonth(ctx, b, h.screens, update.Message.Chat.ID, nil, telegramID, h.screens.Today())
	if err != nil {
		h.logger.Warn("Failed to show month",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
	}
}

// HandleAppointment handles /appointment and /appointment <id>
func (h *Handlers) HandleAppointment(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	s, ok := h.stateManager.Get(telegramID)
	if !ok || s.PriestID == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNoPriest))
		return
	}

	appointmentID := commandArg(update.Message.Text)
	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.State = state.StateAwaitingAppointment
		s.AppointmentID = appointmentID
	})

	prompt := availability.AppointmentPrompt(s.DayOnScreen())
	if appointmentID != "" {
		prompt = "✏️ Changing appointment <code>" + html.EscapeString(appointmentID) + "</code>\n\n" + prompt
	}
	h.sendHTML(ctx, b, update.Message.Chat.ID, prompt)
}

// HandleCancel handles /cancel: leaves the dialog and drops the open draft.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	s, ok := h.stateManager.Get(telegramID)
	if !ok || (s.State == state.StateNone && s.Editor == nil) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled. Unsaved changes were dropped.\n\n/help lists every command.")
}

// HandleTextMessage routes plain text by the dialog state of the user.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// commands have their own handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateAwaitingPriestID:
		h.handlePriestIDStep(ctx, b, update)
	case state.StateAwaitingAppointment:
		h.handleAppointmentStep(ctx, b, update)
	default:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	}
}

// commandArg returns the text after the command: "/priest p-42" -> "p-42".
func commandArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}
