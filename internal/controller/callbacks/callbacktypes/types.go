package callbacktypes

import (
	"time"

	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handler holds the dependencies shared by every callback handler.
type Handler struct {
	Availability *service.AvailabilityService
	Appointments *service.AppointmentService
	Sessions     *state.Manager
	Location     *time.Location
	Logger       *zap.Logger

	// Now is the clock used for "today" in the calendar.
	Now func() time.Time
}

// Today returns the current date in the configured location.
func (h *Handler) Today() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	t := now().In(h.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, h.Location)
}
