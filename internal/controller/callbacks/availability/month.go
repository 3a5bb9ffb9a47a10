package availability

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
)

// HandleMonth opens the month picker: av_month:2025-06.
func HandleMonth(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	arg, err := common.ParseArg(callback.Data, MonthPrefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	month, err := time.ParseInLocation(monthLayout, arg, h.Location)
	if err != nil {
		fail(ctx, b, callback, h, common.ErrInvalidFormat)
		return
	}

	chatID, msg := chatOf(callback)
	if err := ShowMonth(ctx, b, h, chatID, msg, callback.From.ID, month); err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// ShowMonth renders the month picker. Any day open in the session is closed and
// its draft discarded.
func ShowMonth(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, msg *models.Message, telegramID int64, month time.Time) error {
	priestID, err := priestOf(h, telegramID)
	if err != nil {
		return err
	}
	h.Sessions.CloseDay(telegramID)

	var note string
	if _, err := h.Availability.Ensure(ctx, priestID); err != nil {
		if !errors.Is(err, context.Canceled) {
			note = common.ErrorMessage(err)
		}
		h.Logger.Warn("Showing month without fresh data",
			zap.String("priest_id", priestID),
			zap.Error(err))
	}

	month = firstOfMonth(month)
	today := h.Today()
	summaries := h.Availability.Month(priestID, month)

	common.EditOrSend(ctx, b, chatID, msg, monthText(month, note), monthKeyboard(h.Location, month, today, summaries))
	return nil
}

func monthText(month time.Time, note string) string {
	var sb strings.Builder
	sb.WriteString("🗓 <b>" + formatting.FormatMonth(month) + "</b>\n\n")
	sb.WriteString("Pick a day to edit availability.\n")
	sb.WriteString("📌 has bookings  ⛔ has unavailable slots")
	if note != "" {
		sb.WriteString("\n\n" + note)
	}
	return sb.String()
}

// monthKeyboard lays the month out Monday first. Past days are inert.
func monthKeyboard(loc *time.Location, month, today time.Time, summaries []model.DaySummary) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	prev := month.AddDate(0, -1, 0)
	next := month.AddDate(0, 1, 0)
	nav := make([]models.InlineKeyboardButton, 0, 3)
	if prev.Before(firstOfMonth(today)) {
		nav = append(nav, keyboard.Noop(" "))
	} else {
		nav = append(nav, keyboard.Button("◀️", MonthPrefix+prev.Format(monthLayout)))
	}
	nav = append(nav, keyboard.Noop(formatting.FormatMonth(month)))
	nav = append(nav, keyboard.Button("▶️", MonthPrefix+next.Format(monthLayout)))
	kb.Row(nav...)

	headers := make([]models.InlineKeyboardButton, 0, 7)
	for _, name := range formatting.WeekdayHeaders() {
		headers = append(headers, keyboard.Noop(name))
	}
	kb.Row(headers...)

	cells := make([]models.InlineKeyboardButton, 0, 42)
	for i := 0; i < formatting.MondayIndex(month.Weekday()); i++ {
		cells = append(cells, keyboard.Noop(" "))
	}
	for _, summary := range summaries {
		date, err := time.ParseInLocation(model.DateLayout, summary.Date, loc)
		if err != nil {
			continue
		}
		label := strconv.Itoa(date.Day())
		if date.Before(today) {
			cells = append(cells, keyboard.Noop("·"+label))
			continue
		}
		cells = append(cells, keyboard.Button(label+formatting.MonthMarker(summary), DayPrefix+summary.Date))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, keyboard.Noop(" "))
	}
	kb.Grid(7, cells...)

	kb.Row(keyboard.Button("🔄 Refresh", RefreshPrefix+month.Format(monthLayout)))
	return kb.Build()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
