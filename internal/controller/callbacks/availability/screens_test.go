package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
)

func callbackData(markup *models.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func findButton(markup *models.InlineKeyboardMarkup, data string) (models.InlineKeyboardButton, bool) {
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == data {
				return btn, true
			}
		}
	}
	return models.InlineKeyboardButton{}, false
}

func TestMonthKeyboard(t *testing.T) {
	loc := time.UTC
	month := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)

	var summaries []model.DaySummary
	for d := 1; d <= 30; d++ {
		date := time.Date(2025, 6, d, 0, 0, 0, 0, loc).Format(model.DateLayout)
		summaries = append(summaries, model.DaySummary{Date: date, Available: 21})
	}
	summaries[11].Booked = 1      // 12 June
	summaries[12].Unavailable = 3 // 13 June

	markup := monthKeyboard(loc, month, today, summaries)
	data := callbackData(markup)

	t.Run("past days are inert", func(t *testing.T) {
		assert.NotContains(t, data, DayPrefix+"2025-06-09")
		assert.Contains(t, data, DayPrefix+"2025-06-10")
	})

	t.Run("markers", func(t *testing.T) {
		btn, ok := findButton(markup, DayPrefix+"2025-06-12")
		require.True(t, ok)
		assert.Equal(t, "12📌", btn.Text)

		btn, ok = findButton(markup, DayPrefix+"2025-06-13")
		require.True(t, ok)
		assert.Equal(t, "13⛔", btn.Text)
	})

	t.Run("no way back before the current month", func(t *testing.T) {
		assert.NotContains(t, data, MonthPrefix+"2025-05")
		assert.Contains(t, data, MonthPrefix+"2025-07")
	})

	t.Run("weeks start on monday", func(t *testing.T) {
		// 1 June 2025 is a Sunday: six blanks precede it
		week := markup.InlineKeyboard[2]
		require.Len(t, week, 7)
		for i := 0; i < 6; i++ {
			assert.Equal(t, "noop", week[i].CallbackData)
		}
		assert.Equal(t, "·1", week[6].Text)
	})

	t.Run("rows are full", func(t *testing.T) {
		for _, row := range markup.InlineKeyboard[2 : len(markup.InlineKeyboard)-1] {
			assert.Len(t, row, 7)
		}
	})
}

func TestDayKeyboard(t *testing.T) {
	day := model.AvailabilityCalendar.EmptyDay()
	day["10:00"] = model.SlotBooked
	day["11:00"] = model.SlotUnavailable

	t.Run("committed day", func(t *testing.T) {
		markup := dayKeyboard(model.AvailabilityCalendar, "2025-06-10", day, false)
		data := callbackData(markup)

		assert.Contains(t, data, TogglePrefix+"0300")
		assert.Contains(t, data, TogglePrefix+"2300")
		assert.Contains(t, data, MonthPrefix+"2025-06")
		assert.Contains(t, data, RefreshPrefix+"2025-06-10")
		assert.NotContains(t, data, Save)

		btn, ok := findButton(markup, TogglePrefix+"1000")
		require.True(t, ok)
		assert.Equal(t, "📌 10:00", btn.Text)

		btn, ok = findButton(markup, TogglePrefix+"1100")
		require.True(t, ok)
		assert.Equal(t, "⛔ 11:00", btn.Text)
	})

	t.Run("drafting shows save and discard", func(t *testing.T) {
		data := callbackData(dayKeyboard(model.AvailabilityCalendar, "2025-06-10", day, true))
		assert.Contains(t, data, Save)
		assert.Contains(t, data, Discard)
	})

	t.Run("callback data fits telegram limit", func(t *testing.T) {
		for _, d := range callbackData(dayKeyboard(model.AvailabilityCalendar, "2025-06-10", day, true)) {
			assert.LessOrEqual(t, len(d), 64, d)
		}
	})
}

func TestDayText(t *testing.T) {
	day := model.AvailabilityCalendar.EmptyDay()
	day["10:00"] = model.SlotBooked

	bookings := []model.Booking{{
		ID: "b1", Date: "2025-06-10", Start: "10:00:00", Status: "accepted",
		Pooja: "Satyanarayan <puja>", Customer: "Ravi",
	}}

	text := dayText(time.UTC, "2025-06-10", day, 2, bookings, "✅ Saved")

	assert.Contains(t, text, "Tue, 10 Jun 2025")
	assert.Contains(t, text, "20 🟢 · 0 ⛔ · 1 📌")
	assert.Contains(t, text, "Unsaved changes: 2")
	assert.Contains(t, text, "📌 10:00 Satyanarayan &lt;puja&gt; (Ravi)")
	assert.True(t, strings.HasSuffix(text, "✅ Saved"))

	clean := dayText(time.UTC, "2025-06-10", day, 0, nil, "")
	assert.NotContains(t, clean, "Unsaved")
	assert.NotContains(t, clean, "Bookings")
}

func TestNotLoadedScreenOffersNoEditing(t *testing.T) {
	data := callbackData(notLoadedKeyboard("2025-06-10"))
	assert.Equal(t, []string{MonthPrefix + "2025-06", RefreshPrefix + "2025-06-10"}, data)

	text := notLoadedText(time.UTC, "2025-06-10")
	assert.Contains(t, text, "Tue, 10 Jun 2025")
	assert.Contains(t, text, "Could not load availability")
	assert.NotContains(t, text, "Tap a slot")
}

func TestTemplateKeyboard(t *testing.T) {
	tpl := model.Template{Start: "09:00", End: "12:00", Breaks: []model.Slot{"10:00"}}
	markup := templateKeyboard(model.AvailabilityCalendar, "2025-06-10", tpl)
	data := callbackData(markup)

	assert.Contains(t, data, TemplateStart+"0800")
	assert.Contains(t, data, TemplateStart+"1000")
	assert.Contains(t, data, TemplateEnd+"1100")
	assert.Contains(t, data, TemplateEnd+"1300")
	assert.Contains(t, data, TemplateApply)
	assert.Contains(t, data, DayPrefix+"2025-06-10")

	// one break toggle per slot of the workday
	for _, slot := range []string{"0900", "1000", "1100", "1200"} {
		assert.Contains(t, data, TemplateBreak+slot)
	}
	assert.NotContains(t, data, TemplateBreak+"0800")
	assert.NotContains(t, data, TemplateBreak+"1300")

	btn, ok := findButton(markup, TemplateBreak+"1000")
	require.True(t, ok)
	assert.Equal(t, "☕ 10:00", btn.Text)
}

func TestStepperStopsAtCalendarEdges(t *testing.T) {
	row := stepper(model.AvailabilityCalendar, "Start", "03:00", TemplateStart)
	require.Len(t, row, 3)
	assert.Equal(t, "noop", row[0].CallbackData)
	assert.Equal(t, TemplateStart+"0400", row[2].CallbackData)

	row = stepper(model.AvailabilityCalendar, "End", "23:00", TemplateEnd)
	assert.Equal(t, TemplateEnd+"2200", row[0].CallbackData)
	assert.Equal(t, "noop", row[2].CallbackData)
}

func TestTemplateTextWarnsOnReversedRange(t *testing.T) {
	text := templateText("2025-06-10", model.Template{Start: "18:00", End: "09:00"})
	assert.Contains(t, text, "Start is after end")
	assert.Contains(t, text, "Breaks: none")
}

func TestOverrideKeyboard(t *testing.T) {
	token := uuid.New()
	markup := overrideKeyboard(service.OverrideRequest{Token: token, Date: "2025-06-10", Slot: "10:00"})

	data := callbackData(markup)
	assert.Equal(t, []string{OverrideYes + token.String(), OverrideNo + token.String()}, data)
	for _, d := range data {
		assert.LessOrEqual(t, len(d), 64)
	}
}
