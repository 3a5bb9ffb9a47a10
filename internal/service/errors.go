package service

import "errors"

// Read side
var (
	// ErrFetchFailed wraps any failure of the three availability sources.
	// The previously committed grid stays in place.
	ErrFetchFailed = errors.New("fetch availability failed")
)

// Validation of candidate appointments. All of them match ErrValidation.
var (
	ErrValidation          = errors.New("appointment validation failed")
	ErrStartInPast         = validationError("appointment starts in the past")
	ErrInvalidInterval     = validationError("appointment must end after it starts")
	ErrAppointmentConflict = validationError("appointment overlaps an existing appointment")
	ErrMissingPriest       = validationError("priest id is required")
	ErrMissingAppointment  = validationError("appointment id is required")
)

// Write side / draft editing
var (
	ErrCommitFailed     = errors.New("save availability failed")
	ErrCommitInProgress = errors.New("save already in progress")
	ErrNoDraft          = errors.New("no pending changes")
	ErrSlotBooked       = errors.New("slot is booked, override confirmation required")
	ErrSlotNotBooked    = errors.New("slot is not booked")
	ErrUnknownSlot      = errors.New("slot is not part of the day")
	ErrUnknownToken     = errors.New("override request not found")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotLoaded        = errors.New("availability was never loaded")
)

type validationErr struct {
	msg string
}

func validationError(msg string) error {
	return &validationErr{msg: msg}
}

func (e *validationErr) Error() string {
	return e.msg
}

// Is makes every validation error match ErrValidation.
func (e *validationErr) Is(target error) bool {
	return target == ErrValidation
}
