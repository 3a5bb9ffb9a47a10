package state

import (
	"time"

	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
)

// UserState is the text dialog the user is currently in.
type UserState string

const (
	StateNone UserState = "" // no dialog

	StateAwaitingPriestID    UserState = "awaiting_priest_id"
	StateAwaitingAppointment UserState = "awaiting_appointment"
)

// Session carries the identity and the UI state of one chat.
// The priest ID is passed explicitly to every service call; nothing reads it globally.
type Session struct {
	PriestID string
	State    UserState

	// Editor holds the draft of the day currently on screen. Opening another day
	// or the month view discards it.
	Editor *service.DraftEditor

	// Template is the workday pattern being composed, never persisted.
	Template model.Template

	// AppointmentID is set while editing an existing appointment.
	AppointmentID string

	UpdatedAt time.Time
}

// DayOnScreen returns the date of the open editor, or "".
func (s *Session) DayOnScreen() string {
	if s.Editor == nil {
		return ""
	}
	return s.Editor.Date()
}
