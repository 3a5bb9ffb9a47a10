package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/availability"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// Appointment entry errors
var (
	errAppointmentFormat = errors.New("expected: YYYY-MM-DD HH:MM HH:MM title")
	errOffGrid           = errors.New("times must be on the 30 minute grid between 03:00 and 23:30")
)

const priestIDMaxLength = 64

// appointmentEntry is one parsed line of the appointment dialog.
type appointmentEntry struct {
	Start time.Time
	End   time.Time
	Title string
}

// parseAppointmentLine parses "2025-06-10 10:00 11:30 Griha pravesh". The title is optional.
func parseAppointmentLine(text string, loc *time.Location, calendar model.SlotCalendar) (appointmentEntry, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return appointmentEntry{}, errAppointmentFormat
	}

	date, err := time.ParseInLocation(model.DateLayout, fields[0], loc)
	if err != nil {
		return appointmentEntry{}, errAppointmentFormat
	}

	startSlot, err := model.ParseSlot(fields[1])
	if err != nil {
		return appointmentEntry{}, errAppointmentFormat
	}
	endSlot, err := model.ParseSlot(fields[2])
	if err != nil {
		return appointmentEntry{}, errAppointmentFormat
	}

	if !calendar.Contains(startSlot) || endSlot.Minutes()%calendar.Step != 0 {
		return appointmentEntry{}, errOffGrid
	}

	return appointmentEntry{
		Start: startSlot.On(date),
		End:   endSlot.On(date),
		Title: strings.Join(fields[3:], " "),
	}, nil
}

func (h *Handlers) handlePriestIDStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	priestID := strings.TrimSpace(update.Message.Text)
	h.selectPriest(ctx, b, update.Message.Chat.ID, update.Message.From.ID, priestID)
}

// selectPriest switches the session to another priest and opens the calendar.
func (h *Handlers) selectPriest(ctx context.Context, b *bot.Bot, chatID, telegramID int64, priestID string) {
	if priestID == "" || len(priestID) > priestIDMaxLength || strings.ContainsAny(priestID, " /") {
		h.sendError(ctx, b, chatID, "❌ Invalid priest ID.\n\nTry again:")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		if s.PriestID != priestID {
			if s.Editor != nil {
				s.Editor.Discard()
			}
			s.Editor = nil
			s.Template = model.Template{}
		}
		s.PriestID = priestID
		s.State = state.StateNone
		s.AppointmentID = ""
	})

	h.logger.Info("Priest selected",
		zap.Int64("telegram_id", telegramID),
		zap.String("priest_id", priestID))

	// always start from fresh data; a failure still shows the last known grid
	if _, err := h.availability.Refresh(ctx, priestID); err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
	}

	h.sendHTML(ctx, b, chatID, "🙏 Priest <code>"+html.EscapeString(priestID)+"</code> selected.")
	if err := availability.ShowMonth(ctx, b, h.screens, chatID, nil, telegramID, h.screens.Today()); err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
	}
}

func (h *Handlers) handleAppointmentStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	s, ok := h.stateManager.Get(telegramID)
	if !ok || s.PriestID == "" {
		h.stateManager.SetState(telegramID, state.StateNone)
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrNoPriest))
		return
	}

	entry, err := parseAppointmentLine(update.Message.Text, h.location, model.AppointmentCalendar)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\nTry again or /cancel:")
		return
	}

	in := service.AppointmentInput{
		ID:       s.AppointmentID,
		PriestID: s.PriestID,
		Start:    entry.Start,
		End:      entry.End,
		Title:    entry.Title,
	}

	var appt model.Appointment
	if in.ID == "" {
		appt, err = h.appointments.Create(ctx, in)
	} else {
		appt, err = h.appointments.Update(ctx, in)
	}
	if err != nil {
		h.logger.Warn("Appointment rejected",
			zap.Int64("telegram_id", telegramID),
			zap.String("priest_id", s.PriestID),
			zap.Error(err))
		// the dialog stays open so the user can send a corrected line
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nTry again or /cancel:")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.State = state.StateNone
		s.AppointmentID = ""
	})

	note := ""
	if _, err := h.availability.Refresh(ctx, s.PriestID); err != nil {
		note = "\n\n" + common.ErrorMessage(err)
	}

	date := entry.Start.Format(model.DateLayout)
	text := fmt.Sprintf("✅ Appointment saved\n\n📅 %s\n🕐 %s\n🆔 <code>%s</code>%s",
		formatting.FormatDate(entry.Start),
		formatting.FormatTimeRange(entry.Start, entry.End),
		html.EscapeString(appt.ID),
		note)
	if entry.Title != "" {
		text = strings.Replace(text, "\n📅", "\n📝 "+html.EscapeString(entry.Title)+"\n📅", 1)
	}

	markup := keyboard.NewBuilder().
		Row(keyboard.Button("📅 Open day", availability.DayPrefix+date)).
		Build()

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send appointment confirmation", zap.Error(err))
	}
}
