package repository

import (
	"context"

	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/repository/base"
)

// Store serves availability and appointments from PostgreSQL. It satisfies the same
// contract as the REST client so a self-hosted deployment can run without the backend.
type Store struct {
	bookings     *BookingRepository
	appointments *AppointmentRepository
	overrides    *OverrideRepository
}

func NewStore(db base.DB) *Store {
	repo := base.NewRepository(db)
	return &Store{
		bookings:     NewBookingRepository(repo),
		appointments: NewAppointmentRepository(repo),
		overrides:    NewOverrideRepository(repo),
	}
}

func (s *Store) ListBookings(ctx context.Context, priestID string) ([]model.Booking, error) {
	return s.bookings.ListByPriest(ctx, priestID)
}

func (s *Store) ListManualAppointments(ctx context.Context, priestID string) ([]model.Appointment, error) {
	return s.appointments.ListByPriest(ctx, priestID)
}

func (s *Store) ListOverrides(ctx context.Context, priestID string) ([]model.AvailabilityOverride, error) {
	return s.overrides.ListByPriest(ctx, priestID)
}

func (s *Store) SaveAvailability(ctx context.Context, req model.SaveAvailabilityRequest) error {
	return s.overrides.ReplaceDate(ctx, req)
}

func (s *Store) CreateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	return s.appointments.Create(ctx, appt)
}

func (s *Store) UpdateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	return s.appointments.Update(ctx, appt)
}
