package availability

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// HandleSave commits the draft of the day on screen.
func HandleSave(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	chatID, msg := chatOf(callback)

	err = editor.Commit(ctx)
	switch {
	case err == nil:
		h.Logger.Info("Availability saved from chat",
			zap.Int64("user_id", callback.From.ID),
			zap.String("priest_id", editor.PriestID()),
			zap.String("date", editor.Date()))
		renderDay(ctx, b, h, chatID, msg, editor, "✅ Saved")
		common.AnswerCallback(ctx, b, callback.ID, "✅ Saved")

	case errors.Is(err, service.ErrFetchFailed):
		// saved, but the grid on screen may be stale
		renderDay(ctx, b, h, chatID, msg, editor, "✅ Saved\n"+common.ErrorMessage(err))
		common.AnswerCallback(ctx, b, callback.ID, "✅ Saved")

	case errors.Is(err, service.ErrNoDraft), errors.Is(err, service.ErrCommitInProgress):
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(err))

	default:
		renderDay(ctx, b, h, chatID, msg, editor, common.ErrorMessage(err))
		fail(ctx, b, callback, h, err)
	}
}

// HandleDiscard drops the draft and shows the committed day again.
func HandleDiscard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	if editor.IsCommitting() {
		common.AnswerCallback(ctx, b, callback.ID, common.ErrorMessage(service.ErrCommitInProgress))
		return
	}

	editor.Discard()

	chatID, msg := chatOf(callback)
	renderDay(ctx, b, h, chatID, msg, editor, "")
	common.AnswerCallback(ctx, b, callback.ID, "↩️ Changes discarded")
}

// HandleImage sends the week of the day on screen as a picture. The open day is
// drawn with its draft.
func HandleImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	day, err := parseDate(h, editor.Date())
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}

	days := weekDays(h.Availability, editor.PriestID(), day)
	days[editor.Date()] = editor.View()

	img, err := common.GenerateWeekImage(day, days, h.Availability.Calendar(), h.Today())
	if err != nil {
		h.Logger.Error("Failed to render week image", zap.Error(err))
		fail(ctx, b, callback, h, err)
		return
	}

	chatID, _ := chatOf(callback)
	caption := "🗓 Week of " + formatting.FormatDate(day)
	if editor.IsDrafting() {
		caption += " (with unsaved changes)"
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "week_" + editor.Date() + ".png",
			Data:     bytes.NewReader(img),
		},
		Caption: caption,
	})
	if err != nil {
		h.Logger.Error("Failed to send week image", zap.Error(err))
		fail(ctx, b, callback, h, err)
		return
	}
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// weekDays returns the committed days of the Monday-to-Sunday week containing day.
func weekDays(svc *service.AvailabilityService, priestID string, day time.Time) map[string]model.DayAvailability {
	monday := day.AddDate(0, 0, -formatting.MondayIndex(day.Weekday()))
	days := make(map[string]model.DayAvailability, 7)
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i).Format(model.DateLayout)
		days[date] = svc.Day(priestID, date)
	}
	return days
}
