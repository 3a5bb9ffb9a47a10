package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/availability"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"go.uber.org/zap"
)

// Noop is the callback data of buttons that only carry a label.
const Noop = "noop"

// Route dispatches a callback query by its data prefix.
// Longer prefixes sharing a stem with a shorter one are matched first.
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Calendar navigation =====
	case strings.HasPrefix(data, availability.MonthPrefix):
		availability.HandleMonth(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.DayPrefix):
		availability.HandleDay(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.RefreshPrefix):
		availability.HandleRefresh(ctx, b, callback, h)

	// ===== Day editing =====
	case strings.HasPrefix(data, availability.TogglePrefix):
		availability.HandleToggle(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.OverrideYes):
		availability.HandleOverrideConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.OverrideNo):
		availability.HandleOverrideCancel(ctx, b, callback, h)
	case data == availability.Save:
		availability.HandleSave(ctx, b, callback, h)
	case data == availability.Discard:
		availability.HandleDiscard(ctx, b, callback, h)
	case data == availability.Image:
		availability.HandleImage(ctx, b, callback, h)
	case data == availability.NewAppointment:
		availability.HandleNewAppointment(ctx, b, callback, h)

	// ===== Template =====
	case strings.HasPrefix(data, availability.TemplateStart):
		availability.HandleTemplateStart(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.TemplateEnd):
		availability.HandleTemplateEnd(ctx, b, callback, h)
	case strings.HasPrefix(data, availability.TemplateBreak):
		availability.HandleTemplateBreak(ctx, b, callback, h)
	case data == availability.TemplateApply:
		availability.HandleTemplateApply(ctx, b, callback, h)
	case data == availability.Template:
		availability.HandleTemplate(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}
