package availability

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// HandleTemplate opens the workday template editor for the day on screen.
func HandleTemplate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	s := h.Sessions.Update(callback.From.ID, func(s *state.Session) {
		if s.Template.Start == "" || s.Template.End == "" {
			s.Template = service.DefaultTemplate()
		}
	})

	showTemplate(ctx, b, h, callback, editor.Date(), s.Template)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// HandleTemplateStart moves the start of the workday: av_tpl_start:0800.
func HandleTemplateStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	updateTemplate(ctx, b, callback, h, TemplateStart, func(t model.Template, slot model.Slot) model.Template {
		t.Start = slot
		return t
	})
}

// HandleTemplateEnd moves the end of the workday: av_tpl_end:1800.
func HandleTemplateEnd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	updateTemplate(ctx, b, callback, h, TemplateEnd, func(t model.Template, slot model.Slot) model.Template {
		t.End = slot
		return t
	})
}

// HandleTemplateBreak adds or removes a break: av_tpl_break:1300.
func HandleTemplateBreak(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	updateTemplate(ctx, b, callback, h, TemplateBreak, func(t model.Template, slot model.Slot) model.Template {
		return t.ToggleBreak(slot)
	})
}

func updateTemplate(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	prefix string,
	change func(model.Template, model.Slot) model.Template,
) {
	slot, err := common.ParseSlotArg(callback.Data, prefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	if !h.Availability.Calendar().Contains(slot) {
		fail(ctx, b, callback, h, service.ErrUnknownSlot)
		return
	}

	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	s := h.Sessions.Update(callback.From.ID, func(s *state.Session) {
		if s.Template.Start == "" || s.Template.End == "" {
			s.Template = service.DefaultTemplate()
		}
		s.Template = change(s.Template, slot).Normalize()
	})

	showTemplate(ctx, b, h, callback, editor.Date(), s.Template)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// HandleTemplateApply applies the template to the draft of the day on screen.
func HandleTemplateApply(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	s, _ := h.Sessions.Get(callback.From.ID)
	tpl := s.Template
	if tpl.Start == "" || tpl.End == "" {
		tpl = service.DefaultTemplate()
	}

	if _, err := editor.ApplyTemplate(tpl); err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	h.Logger.Info("Template applied from chat",
		zap.Int64("user_id", callback.From.ID),
		zap.String("date", editor.Date()))

	chatID, msg := chatOf(callback)
	renderDay(ctx, b, h, chatID, msg, editor, "")
	common.AnswerCallback(ctx, b, callback.ID, "🧩 Template applied, booked slots kept")
}

func showTemplate(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, callback *models.CallbackQuery, date string, tpl model.Template) {
	chatID, msg := chatOf(callback)
	common.EditOrSend(ctx, b, chatID, msg, templateText(date, tpl), templateKeyboard(h.Availability.Calendar(), date, tpl))
}

func templateText(date string, tpl model.Template) string {
	var sb strings.Builder
	sb.WriteString("🧩 <b>Workday template</b> for " + date + "\n\n")
	sb.WriteString("Start: " + string(tpl.Start) + "\n")
	sb.WriteString("End: " + string(tpl.End) + "\n")

	if len(tpl.Breaks) == 0 {
		sb.WriteString("Breaks: none\n")
	} else {
		breaks := make([]string, 0, len(tpl.Breaks))
		for _, br := range tpl.Breaks {
			breaks = append(breaks, string(br))
		}
		sb.WriteString("Breaks: " + strings.Join(breaks, ", ") + "\n")
	}

	if tpl.Start.Minutes() > tpl.End.Minutes() {
		sb.WriteString("\n⚠️ Start is after end: every free slot becomes unavailable.\n")
	}
	sb.WriteString("\nSlots inside the workday become available, the rest unavailable. Booked slots are never changed.")
	return sb.String()
}

// templateKeyboard shows start and end steppers plus one toggle per slot inside
// the workday.
func templateKeyboard(calendar model.SlotCalendar, date string, tpl model.Template) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	kb.Row(stepper(calendar, "Start", tpl.Start, TemplateStart)...)
	kb.Row(stepper(calendar, "End", tpl.End, TemplateEnd)...)

	var breaks []models.InlineKeyboardButton
	for _, slot := range calendar.Slots() {
		if !tpl.Contains(slot) {
			continue
		}
		label := "🟢 " + string(slot)
		if tpl.IsBreak(slot) {
			label = "☕ " + string(slot)
		}
		breaks = append(breaks, keyboard.Button(label, TemplateBreak+slot.Compact()))
	}
	if len(breaks) > 0 {
		kb.Row(keyboard.Noop("Tap a slot to make it a break"))
		kb.Grid(4, breaks...)
	}

	kb.Row(keyboard.Button("✅ Apply", TemplateApply))
	kb.Row(keyboard.BackButton(DayPrefix + date))
	return kb.Build()
}

func stepper(calendar model.SlotCalendar, label string, value model.Slot, prefix string) []models.InlineKeyboardButton {
	m := value.Minutes()
	row := make([]models.InlineKeyboardButton, 0, 3)

	if prev := model.SlotFromMinutes(m - calendar.Step); m-calendar.Step >= calendar.First {
		row = append(row, keyboard.Button("◀️", prefix+prev.Compact()))
	} else {
		row = append(row, keyboard.Noop(" "))
	}
	row = append(row, keyboard.Noop(label+" "+string(value)))
	if next := model.SlotFromMinutes(m + calendar.Step); m+calendar.Step <= calendar.Last {
		row = append(row, keyboard.Button("▶️", prefix+next.Compact()))
	} else {
		row = append(row, keyboard.Noop(" "))
	}
	return row
}
