package availability

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/templeseva/priest_scheduler/internal/service"
)

func showOverrideConfirm(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, msg *models.Message, date string, req service.OverrideRequest) {
	text := "📌 <b>" + string(req.Slot) + "</b> on " + date + " is booked.\n\n" +
		"Mark it available anyway? The booking itself is not cancelled."
	markup := overrideKeyboard(req)
	common.EditOrSend(ctx, b, chatID, msg, text, markup)
}

func overrideKeyboard(req service.OverrideRequest) *models.InlineKeyboardMarkup {
	token := req.Token.String()
	return keyboard.NewBuilder().
		Row(keyboard.YesNoRow(OverrideYes+token, OverrideNo+token)...).
		Build()
}

// HandleOverrideConfirm frees a booked slot in the draft: av_ovr_yes:<token>.
func HandleOverrideConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	handleOverride(ctx, b, callback, h, OverrideYes, true)
}

// HandleOverrideCancel drops the request and leaves the slot booked: av_ovr_no:<token>.
func HandleOverrideCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	handleOverride(ctx, b, callback, h, OverrideNo, false)
}

func handleOverride(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, prefix string, confirm bool) {
	arg, err := common.ParseArg(callback.Data, prefix)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	token, err := uuid.Parse(arg)
	if err != nil {
		fail(ctx, b, callback, h, common.ErrInvalidFormat)
		return
	}

	editor, err := openEditor(h, callback.From.ID)
	if err != nil {
		fail(ctx, b, callback, h, err)
		return
	}
	chatID, msg := chatOf(callback)

	toast := "Slot stays booked"
	if confirm {
		slot, cerr := editor.ConfirmOverride(token)
		err = cerr
		toast = "🟢 " + string(slot) + " marked available"
	} else {
		err = editor.CancelOverride(token)
	}

	if err != nil {
		// the request is gone either way; show the day as it is
		renderDay(ctx, b, h, chatID, msg, editor, "")
		fail(ctx, b, callback, h, err)
		return
	}

	renderDay(ctx, b, h, chatID, msg, editor, "")
	common.AnswerCallback(ctx, b, callback.ID, toast)
}
