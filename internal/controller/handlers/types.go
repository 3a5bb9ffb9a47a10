package handlers

import (
	"time"

	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/templeseva/priest_scheduler/internal/controller/state"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers holds the dependencies of the command and text handlers.
type Handlers struct {
	availability *service.AvailabilityService
	appointments *service.AppointmentService
	stateManager *state.Manager
	location     *time.Location
	logger       *zap.Logger

	// screens renders the calendar screens shared with the inline buttons
	screens *callbacktypes.Handler
}

func NewHandlers(screens *callbacktypes.Handler) *Handlers {
	return &Handlers{
		availability: screens.Availability,
		appointments: screens.Appointments,
		stateManager: screens.Sessions,
		location:     screens.Location,
		logger:       screens.Logger,
		screens:      screens,
	}
}
