package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AppointmentStore reads the occupied intervals of a priest and writes manual appointments.
type AppointmentStore interface {
	ListBookings(ctx context.Context, priestID string) ([]model.Booking, error)
	ListManualAppointments(ctx context.Context, priestID string) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error)
	UpdateAppointment(ctx context.Context, appt model.Appointment) (model.Appointment, error)
}

// AppointmentInput is a candidate manual appointment. ID is empty on create.
type AppointmentInput struct {
	ID       string
	PriestID string
	Start    time.Time
	End      time.Time
	Title    string
	Notes    string
}

// AppointmentService creates and edits manual appointments. Every candidate is validated
// and checked for overlaps before anything is sent to the store.
type AppointmentService struct {
	store           AppointmentStore
	location        *time.Location
	bookingDuration time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

func NewAppointmentService(
	store AppointmentStore,
	location *time.Location,
	bookingDuration time.Duration,
	logger *zap.Logger,
) *AppointmentService {
	if location == nil {
		location = time.Local
	}
	if bookingDuration <= 0 {
		bookingDuration = time.Hour
	}
	return &AppointmentService{
		store:           store,
		location:        location,
		bookingDuration: bookingDuration,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock replaces the time source, used by tests.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// Existing returns every occupied interval of the priest: manual appointments and
// bookings that block their slot.
func (s *AppointmentService) Existing(ctx context.Context, priestID string) ([]model.Interval, error) {
	var (
		bookings     []model.Booking
		appointments []model.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.store.ListBookings(gctx, priestID)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appointments, err = s.store.ListManualAppointments(gctx, priestID)
		if err != nil {
			return fmt.Errorf("list manual appointments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	intervals := make([]model.Interval, 0, len(bookings)+len(appointments))
	for _, appt := range appointments {
		if appt.PriestID != "" && appt.PriestID != priestID {
			continue
		}
		iv, ok := s.appointmentInterval(appt)
		if !ok {
			s.logger.Warn("Skipping malformed appointment",
				zap.String("id", appt.ID),
				zap.String("start", appt.Start),
				zap.String("end", appt.End))
			continue
		}
		intervals = append(intervals, iv)
	}
	for _, b := range bookings {
		if !b.Blocks() || (b.PriestID != "" && b.PriestID != priestID) {
			continue
		}
		iv, ok := s.bookingInterval(b)
		if !ok {
			s.logger.Warn("Skipping malformed booking",
				zap.String("id", b.ID),
				zap.String("date", b.Date),
				zap.String("start", b.Start))
			continue
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}

// Check validates the candidate and returns the intervals it overlaps.
// A non-empty result comes with ErrAppointmentConflict.
func (s *AppointmentService) Check(ctx context.Context, in AppointmentInput) ([]model.Interval, error) {
	if strings.TrimSpace(in.PriestID) == "" {
		return nil, ErrMissingPriest
	}
	// temporal rules first, they give the most specific message
	if err := ValidateCandidate(s.now(), in.Start, in.End); err != nil {
		return nil, err
	}

	existing, err := s.Existing(ctx, in.PriestID)
	if err != nil {
		return nil, err
	}

	conflicts := Conflicts(in.Start, in.End, existing, in.ID)
	if len(conflicts) > 0 {
		return conflicts, fmt.Errorf("%w: %s", ErrAppointmentConflict, describe(conflicts[0], s.location))
	}
	return nil, nil
}

// Create stores a new manual appointment after validation.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (model.Appointment, error) {
	in.ID = ""
	if _, err := s.Check(ctx, in); err != nil {
		return model.Appointment{}, err
	}

	appt := s.toModel(in)
	appt.ID = uuid.NewString()

	created, err := s.store.CreateAppointment(ctx, appt)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.String("id", created.ID),
		zap.String("priest_id", in.PriestID),
		zap.Time("start", in.Start),
		zap.Time("end", in.End))

	return created, nil
}

// Update edits an appointment in place; it never conflicts with its own previous version.
func (s *AppointmentService) Update(ctx context.Context, in AppointmentInput) (model.Appointment, error) {
	if in.ID == "" {
		return model.Appointment{}, ErrMissingAppointment
	}
	if _, err := s.Check(ctx, in); err != nil {
		return model.Appointment{}, err
	}

	current, err := s.find(ctx, in.PriestID, in.ID)
	if err != nil {
		return model.Appointment{}, err
	}

	// the write replaces the whole record: keep what the edit leaves out
	appt := s.toModel(in)
	if appt.Title == "" {
		appt.Title = current.Title
	}
	if appt.Notes == "" {
		appt.Notes = current.Notes
	}

	updated, err := s.store.UpdateAppointment(ctx, appt)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment updated",
		zap.String("id", in.ID),
		zap.String("priest_id", in.PriestID),
		zap.Time("start", in.Start),
		zap.Time("end", in.End))

	return updated, nil
}

// find returns the stored appointment of the priest with the given id.
func (s *AppointmentService) find(ctx context.Context, priestID, id string) (model.Appointment, error) {
	appointments, err := s.store.ListManualAppointments(ctx, priestID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("%w: list manual appointments: %w", ErrFetchFailed, err)
	}
	for _, appt := range appointments {
		if appt.ID == id && (appt.PriestID == "" || appt.PriestID == priestID) {
			return appt, nil
		}
	}
	return model.Appointment{}, fmt.Errorf("%w: %s", ErrMissingAppointment, id)
}

func (s *AppointmentService) toModel(in AppointmentInput) model.Appointment {
	return model.Appointment{
		ID:       in.ID,
		PriestID: in.PriestID,
		Start:    model.FormatTimestamp(in.Start.In(s.location)),
		End:      model.FormatTimestamp(in.End.In(s.location)),
		Title:    in.Title,
		Notes:    in.Notes,
	}
}

// appointmentInterval falls back to one appointment-grid slot when the end is missing.
func (s *AppointmentService) appointmentInterval(appt model.Appointment) (model.Interval, bool) {
	start, err := model.ParseTimestamp(appt.Start, s.location)
	if err != nil {
		return model.Interval{}, false
	}
	end, err := model.ParseTimestamp(appt.End, s.location)
	if err != nil || !end.After(start) {
		end = start.Add(model.AppointmentCalendar.Duration())
	}
	return model.Interval{ID: appt.ID, Start: start, End: end}, true
}

// bookingInterval spans bookingDuration from the booking start. Booking IDs are
// prefixed so they never match the ID of an edited manual appointment.
func (s *AppointmentService) bookingInterval(b model.Booking) (model.Interval, bool) {
	date := strings.TrimSpace(b.Date)
	if len(date) > len(model.DateLayout) {
		date = date[:len(model.DateLayout)]
	}
	day, err := time.ParseInLocation(model.DateLayout, date, s.location)
	if err != nil {
		return model.Interval{}, false
	}
	slot, err := model.ParseSlot(b.Start)
	if err != nil {
		return model.Interval{}, false
	}
	start := slot.On(day)
	return model.Interval{ID: "booking:" + b.ID, Start: start, End: start.Add(s.bookingDuration)}, true
}

func describe(iv model.Interval, loc *time.Location) string {
	return fmt.Sprintf("%s %s-%s",
		iv.Start.In(loc).Format(model.DateLayout),
		iv.Start.In(loc).Format("15:04"),
		iv.End.In(loc).Format("15:04"))
}
