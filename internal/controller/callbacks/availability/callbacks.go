// Package availability implements the calendar screens of the bot: the month
// picker, the day editor with its draft, the workday template and the week image.
package availability

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// Callback data
const (
	MonthPrefix   = "av_month:"   // av_month:2025-06
	DayPrefix     = "av_day:"     // av_day:2025-06-10
	TogglePrefix  = "av_toggle:"  // av_toggle:0900
	OverrideYes   = "av_ovr_yes:" // av_ovr_yes:<token>
	OverrideNo    = "av_ovr_no:"  // av_ovr_no:<token>
	RefreshPrefix = "av_refresh:" // av_refresh:2025-06 or av_refresh:2025-06-10

	Template      = "av_tpl"
	TemplateStart = "av_tpl_start:" // av_tpl_start:0900
	TemplateEnd   = "av_tpl_end:"   // av_tpl_end:1800
	TemplateBreak = "av_tpl_break:" // av_tpl_break:1300
	TemplateApply = "av_tpl_apply"

	Save           = "av_save"
	Discard        = "av_discard"
	Image          = "av_image"
	NewAppointment = "av_appt"
)

const monthLayout = "2006-01"

// chatOf returns the chat the callback came from.
func chatOf(callback *models.CallbackQuery) (int64, *models.Message) {
	msg := common.GetMessageFromCallback(callback)
	if msg != nil {
		return msg.Chat.ID, msg
	}
	return callback.From.ID, nil
}

// priestOf returns the priest selected in the session.
func priestOf(h *callbacktypes.Handler, telegramID int64) (string, error) {
	s, ok := h.Sessions.Get(telegramID)
	if !ok || s.PriestID == "" {
		return "", common.ErrNoPriest
	}
	return s.PriestID, nil
}

// openEditor returns the editor of the day on screen.
func openEditor(h *callbacktypes.Handler, telegramID int64) (*service.DraftEditor, error) {
	s, ok := h.Sessions.Get(telegramID)
	if !ok || s.PriestID == "" {
		return nil, common.ErrNoPriest
	}
	if s.Editor == nil || s.Editor.PriestID() != s.PriestID {
		return nil, common.ErrNoOpenDay
	}
	h.Sessions.Touch(telegramID)
	return s.Editor, nil
}

// fail logs the error and shows it as an alert.
func fail(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, err error) {
	h.Logger.Warn("Callback failed",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
		zap.Error(err))
	common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
}

func parseDate(h *callbacktypes.Handler, value string) (time.Time, error) {
	date, err := time.ParseInLocation(model.DateLayout, value, h.Location)
	if err != nil {
		return time.Time{}, common.ErrInvalidFormat
	}
	return date, nil
}
