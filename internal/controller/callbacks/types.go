package callbacks

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handler wraps callbacktypes.Handler with the entry point registered on the bot.
type Handler struct {
	*callbacktypes.Handler
}

func NewHandler(
	availabilityService *service.AvailabilityService,
	appointmentService *service.AppointmentService,
	sessions *state.Manager,
	location *time.Location,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		Availability: availabilityService,
		Appointments: appointmentService,
		Sessions:     sessions,
		Location:     location,
		Logger:       logger,
		Now:          time.Now,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery is the bot handler for every inline button.
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
