package common

import (
	"errors"

	"github.com/templeseva/priest_scheduler/internal/backend"
	"github.com/templeseva/priest_scheduler/internal/service"
)

// Errors raised by the handlers themselves
var (
	ErrNoPriest      = errors.New("no priest selected")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoOpenDay     = errors.New("no day is open")
)

// ErrorMessage maps an error to the text shown to the user.
func ErrorMessage(err error) string {
	var statusErr *backend.StatusError

	switch {
	case errors.Is(err, ErrNoPriest), errors.Is(err, service.ErrMissingPriest):
		return "❌ Select a priest first: /priest <id>"
	case errors.Is(err, ErrNoMessage):
		return "❌ Failed to process the message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data format"
	case errors.Is(err, ErrNoOpenDay):
		return "❌ The day is no longer open, pick it again from the calendar"

	case errors.Is(err, service.ErrStartInPast):
		return "❌ The appointment cannot start in the past"
	case errors.Is(err, service.ErrInvalidInterval):
		return "❌ The appointment must end after it starts"
	case errors.Is(err, service.ErrAppointmentConflict):
		return "❌ " + err.Error()
	case errors.Is(err, service.ErrMissingAppointment):
		return "❌ Appointment not found"

	case errors.Is(err, service.ErrCommitInProgress):
		return "⏳ Saving, please wait"
	case errors.Is(err, service.ErrNoDraft):
		return "ℹ️ There are no changes to save"
	case errors.Is(err, service.ErrCommitFailed):
		return "❌ Could not save. Your changes are kept, try again"
	case errors.Is(err, service.ErrNotLoaded):
		return "⚠️ Availability is not loaded yet, press Refresh"
	case errors.Is(err, service.ErrFetchFailed):
		return "⚠️ Could not load availability. Showing the last known data"
	case errors.Is(err, service.ErrSlotBooked):
		return "📌 This slot is booked"
	case errors.Is(err, service.ErrSlotNotBooked):
		return "ℹ️ This slot is not booked anymore"
	case errors.Is(err, service.ErrUnknownSlot):
		return "❌ Unknown slot"
	case errors.Is(err, service.ErrUnknownToken):
		return "⌛ This confirmation has expired"
	case errors.Is(err, service.ErrInvalidDate):
		return "❌ Invalid date"

	case errors.As(err, &statusErr):
		return "❌ The booking service is unavailable, try later"
	default:
		return "❌ Something went wrong"
	}
}
