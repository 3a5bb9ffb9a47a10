package availability

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// HandleDay opens the editor of one date: av_day:2025-06-10.
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArg(callback.Data, DayPrefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	if _, err := parseDate(h, arg); err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	chatID, msg := chatOf(callback)
	if err := ShowDay(ctx, b, h, chatID, msg, callback.From.ID, arg); err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// ShowDay opens date in the session and renders it. Opening another date
// discards the draft of the previous one.
func ShowDay(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, msg *models.Message, telegramID int64, date string) error {
	priestID, err := priestOf(h, telegramID)
	if err != nil {
		return err
	}

	var note string
	if _, err := h.Availability.Ensure(ctx, priestID); err != nil {
		if !h.Availability.Loaded(priestID) {
			// nothing was ever fetched: there is no grid to show or edit
			h.Logger.Warn("Day not shown, availability never loaded",
				zap.String("priest_id", priestID),
				zap.String("date", date),
				zap.Error(err))
			h.Sessions.CloseDay(telegramID)
			common.EditOrSend(ctx, b, chatID, msg, notLoadedText(h.Location, date), notLoadedKeyboard(date))
			return nil
		}
		note = common.ErrorMessage(err)
		h.Logger.Warn("Showing day without fresh data",
			zap.String("priest_id", priestID),
			zap.String("date", date),
			zap.Error(err))
	}

	editor, err := editorFor(h, telegramID, priestID, date)
	if err != nil {
		return err
	}

	renderDay(ctx, b, h, chatID, msg, editor, note)
	return nil
}

// editorFor returns the session editor of date, replacing the one of another date.
func editorFor(h *callbacktypes.Handler, telegramID int64, priestID, date string) (*service.DraftEditor, error) {
	var (
		editor *service.DraftEditor
		err    error
	)
	h.Sessions.Update(telegramID, func(s *state.Session) {
		if s.Editor != nil && s.Editor.Date() == date && s.Editor.PriestID() == priestID {
			editor = s.Editor
			return
		}
		if s.Editor != nil {
			s.Editor.Discard()
		}
		editor, err = service.NewDraftEditor(h.Availability, priestID, date, h.Logger)
		s.Editor = editor
	})
	return editor, err
}

func renderDay(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, msg *models.Message, editor *service.DraftEditor, note string) {
	bookings := h.Availability.DayBookings(editor.PriestID(), editor.Date())
	text := dayText(h.Location, editor.Date(), editor.View(), len(editor.Changed()), bookings, note)
	markup := dayKeyboard(h.Availability.Calendar(), editor.Date(), editor.View(), editor.IsDrafting())
	common.EditOrSend(ctx, b, chatID, msg, text, markup)
}

func dayText(loc *time.Location, date string, day model.DayAvailability, changed int, bookings []model.Booking, note string) string {
	var sb strings.Builder

	if t, err := time.ParseInLocation(model.DateLayout, date, loc); err == nil {
		sb.WriteString("📅 <b>" + formatting.FormatDate(t) + "</b>\n")
	} else {
		sb.WriteString("📅 <b>" + date + "</b>\n")
	}
	sb.WriteString(formatting.DayCounters(day.Summary(date)) + "\n")

	if changed > 0 {
		sb.WriteString(fmt.Sprintf("\n✏️ Unsaved changes: %d\n", changed))
	}

	if len(bookings) > 0 {
		sb.WriteString("\n<b>Bookings</b>\n")
		for _, bk := range bookings {
			start := bk.Start
			if slot, err := model.ParseSlot(bk.Start); err == nil {
				start = string(slot)
			}
			line := "📌 " + start
			if bk.Pooja != "" {
				line += " " + html.EscapeString(bk.Pooja)
			}
			if bk.Customer != "" {
				line += " (" + html.EscapeString(bk.Customer) + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\nTap a slot to toggle it.\n" + formatting.Legend())
	if note != "" {
		sb.WriteString("\n\n" + note)
	}
	return sb.String()
}

func dayKeyboard(calendar model.SlotCalendar, date string, day model.DayAvailability, drafting bool) *models.InlineKeyboardMarkup {
	slots := calendar.Slots()
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		buttons = append(buttons, keyboard.Button(
			formatting.SlotButtonText(slot, day.Status(slot)),
			TogglePrefix+slot.Compact(),
		))
	}

	kb := keyboard.NewBuilder().Grid(3, buttons...)
	kb.Row(
		keyboard.Button("🧩 Template", Template),
		keyboard.Button("🖼 Week", Image),
		keyboard.Button("➕ Appointment", NewAppointment),
	)
	if drafting {
		kb.Row(
			keyboard.Button("💾 Save", Save),
			keyboard.Button("↩️ Discard", Discard),
		)
	}

	month := date
	if len(date) >= len(monthLayout) {
		month = date[:len(monthLayout)]
	}
	kb.Row(
		keyboard.BackButton(MonthPrefix+month),
		keyboard.Button("🔄 Refresh", RefreshPrefix+date),
	)
	return kb.Build()
}

func notLoadedText(loc *time.Location, date string) string {
	title := date
	if t, perr := time.ParseInLocation(model.DateLayout, date, loc); perr == nil {
		title = formatting.FormatDate(t)
	}
	return "📅 <b>" + title + "</b>\n\n" +
		"⚠️ Could not load availability.\n" +
		"The day cannot be edited until availability is loaded. Press 🔄 Refresh to try again."
}

// notLoadedKeyboard offers only a retry and the way back: no slot can be edited.
func notLoadedKeyboard(date string) *models.InlineKeyboardMarkup {
	month := date
	if len(date) >= len(monthLayout) {
		month = date[:len(monthLayout)]
	}
	return keyboard.NewBuilder().
		Row(
			keyboard.BackButton(MonthPrefix+month),
			keyboard.Button("🔄 Refresh", RefreshPrefix+date),
		).
		Build()
}

// HandleToggle flips a slot between Available and Unavailable. A booked slot
// asks for confirmation first.
func HandleToggle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slot, err := common.ParseSlotArg(callback.Data, TogglePrefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	chatID, msg := chatOf(callback)

	status, err := editor.Toggle(slot)
	if errors.Is(err, service.ErrSlotBooked) {
		req, reqErr := editor.RequestOverride(slot)
		if reqErr != nil {
			fail(ctx, b, callback, h, reqErr)
			return
		}
		showOverrideConfirm(ctx, b, h, chatID, msg, editor.Date(), req)
		common.AnswerCallback(ctx, b, callback.ID, "")
		return
	}
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	renderDay(ctx, b, h, chatID, msg, editor, "")
	common.AnswerCallback(ctx, b, callback.ID, string(slot)+" → "+formatting.GetSlotStatusDisplay(status).Text)
}

// HandleRefresh re-fetches the grid and re-renders the month or the day the
// argument names.
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArg(callback.Data, RefreshPrefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	priestID, err := priestOf(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	toast := "🔄 Updated"
	if _, err := h.Availability.Refresh(ctx, priestID); err != nil {
		toast = common.ErrorMessage(err)
	}

	chatID, msg := chatOf(callback)
	if len(arg) == len(monthLayout) {
		month, perr := time.ParseInLocation(monthLayout, arg, h.Location)
		if perr != nil {
			fail(ctx, b, callback, h, common.ErrInvalidFormat)
			return
		}
		err = ShowMonth(ctx, b, h, chatID, msg, callback.From.ID, month)
	} else {
		if _, perr := parseDate(h, arg); perr != nil {
			fail(ctx, b, callback, h, perr)
			return
		}
		err = ShowDay(ctx, b, h, chatID, msg, callback.From.ID, arg)
	}
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	common.AnswerCallback(ctx, b, callback.ID, toast)
}
