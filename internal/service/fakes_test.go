package service

import (
	"context"
	"errors"
	"sync"

	"github.com/templeseva/priest_scheduler/internal/model"
)

var errBackendDown = errors.New("backend down")

// fakeSource is an in-memory backend. Saved overrides are returned by later reads,
// the way the real backend replaces the set of a date.
type fakeSource struct {
	mu           sync.Mutex
	bookings     []model.Booking
	appointments []model.Appointment
	overrides    []model.AvailabilityOverride

	bookingsErr  error
	overridesErr error
	saveErr      error

	saves   []model.SaveAvailabilityRequest
	created []model.Appointment
	updated []model.Appointment
	block   chan struct{}
}

func (f *fakeSource) ListBookings(ctx context.Context, priestID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return append([]model.Booking(nil), f.bookings...), nil
}

func (f *fakeSource) ListManualAppointments(ctx context.Context, priestID string) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Appointment(nil), f.appointments...), nil
}

func (f *fakeSource) ListOverrides(ctx context.Context, priestID string) ([]model.AvailabilityOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overridesErr != nil {
		return nil, f.overridesErr
	}
	return append([]model.AvailabilityOverride(nil), f.overrides...), nil
}

func (f *fakeSource) SaveAvailability(ctx context.Context, req model.SaveAvailabilityRequest) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, req)

	kept := f.overrides[:0:0]
	for _, o := range f.overrides {
		if o.SlotDate != req.Date {
			kept = append(kept, o)
		}
	}
	for _, slot := range req.UnavailableSlots {
		kept = append(kept, model.AvailabilityOverride{PriestID: req.PriestID, SlotDate: req.Date, SlotTime: slot})
	}
	f.overrides = kept
	return nil
}

func (f *fakeSource) CreateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, appt)
	f.appointments = append(f.appointments, appt)
	return appt, nil
}

func (f *fakeSource) UpdateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, appt)
	return appt, nil
}

func (f *fakeSource) setOverridesErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overridesErr = err
}
