package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap/zaptest"
)

func newTestAppointments(t *testing.T, src *fakeSource) *AppointmentService {
	t.Helper()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return NewAppointmentService(src, time.UTC, time.Hour, zaptest.NewLogger(t)).
		WithClock(func() time.Time { return now })
}

func TestAppointmentService_CreateDetectsOverlap(t *testing.T) {
	src := &fakeSource{appointments: []model.Appointment{
		{ID: "a1", PriestID: "p1", Start: "2025-06-10T10:30:00Z", End: "2025-06-10T11:30:00Z"},
	}}
	svc := newTestAppointments(t, src)

	_, err := svc.Create(context.Background(), AppointmentInput{PriestID: "p1", Start: at(10, 0), End: at(11, 0)})
	assert.ErrorIs(t, err, ErrAppointmentConflict)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, src.created)

	created, err := svc.Create(context.Background(), AppointmentInput{PriestID: "p1", Start: at(11, 30), End: at(12, 0), Title: "Puja"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-06-10T11:30:00Z", created.Start)
	require.Len(t, src.created, 1)
}

func TestAppointmentService_ValidationBeforeStore(t *testing.T) {
	src := &fakeSource{bookingsErr: errBackendDown}
	svc := newTestAppointments(t, src)

	_, err := svc.Create(context.Background(), AppointmentInput{PriestID: "p1",
		Start: time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 5, 31, 11, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrStartInPast)

	_, err = svc.Create(context.Background(), AppointmentInput{PriestID: "p1", Start: at(11, 0), End: at(11, 0)})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = svc.Create(context.Background(), AppointmentInput{Start: at(11, 0), End: at(12, 0)})
	assert.ErrorIs(t, err, ErrMissingPriest)

	// only a valid candidate reaches the fetch
	_, err = svc.Create(context.Background(), AppointmentInput{PriestID: "p1", Start: at(11, 0), End: at(12, 0)})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestAppointmentService_BookingsBlockForTheirDuration(t *testing.T) {
	src := &fakeSource{bookings: []model.Booking{
		{ID: "b1", Date: "2025-06-10", Start: "10:00", Status: "CONFIRMED"},
		{ID: "b2", Date: "2025-06-10", Start: "15:00", Status: "PENDING"},
	}}
	svc := newTestAppointments(t, src)

	conflicts, err := svc.Check(context.Background(), AppointmentInput{PriestID: "p1", Start: at(10, 30), End: at(10, 45)})
	assert.ErrorIs(t, err, ErrAppointmentConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "booking:b1", conflicts[0].ID)

	_, err = svc.Check(context.Background(), AppointmentInput{PriestID: "p1", Start: at(11, 0), End: at(12, 0)})
	assert.NoError(t, err)

	_, err = svc.Check(context.Background(), AppointmentInput{PriestID: "p1", Start: at(15, 0), End: at(16, 0)})
	assert.NoError(t, err)
}

func TestAppointmentService_UpdateInPlace(t *testing.T) {
	src := &fakeSource{appointments: []model.Appointment{
		{ID: "a1", PriestID: "p1", Start: "2025-06-10T10:00:00Z", End: "2025-06-10T11:00:00Z"},
		{ID: "a2", PriestID: "p1", Start: "2025-06-10T12:00:00Z", End: "2025-06-10T13:00:00Z"},
	}}
	svc := newTestAppointments(t, src)

	_, err := svc.Update(context.Background(), AppointmentInput{ID: "a1", PriestID: "p1", Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), AppointmentInput{ID: "a1", PriestID: "p1", Start: at(10, 0), End: at(12, 30)})
	assert.ErrorIs(t, err, ErrAppointmentConflict)

	_, err = svc.Update(context.Background(), AppointmentInput{PriestID: "p1", Start: at(10, 0), End: at(11, 0)})
	assert.ErrorIs(t, err, ErrMissingAppointment)

	assert.Len(t, src.updated, 1)
}

func TestAppointmentService_UpdateKeepsOmittedFields(t *testing.T) {
	src := &fakeSource{appointments: []model.Appointment{
		{ID: "a1", PriestID: "p1", Start: "2025-06-10T10:00:00Z", End: "2025-06-10T11:00:00Z", Title: "Homa", Notes: "bring ghee"},
	}}
	svc := newTestAppointments(t, src)

	updated, err := svc.Update(context.Background(), AppointmentInput{ID: "a1", PriestID: "p1", Start: at(15, 0), End: at(16, 0)})
	require.NoError(t, err)
	assert.Equal(t, "Homa", updated.Title)
	assert.Equal(t, "bring ghee", updated.Notes)

	updated, err = svc.Update(context.Background(), AppointmentInput{ID: "a1", PriestID: "p1", Start: at(15, 0), End: at(16, 0), Title: "Aarti"})
	require.NoError(t, err)
	assert.Equal(t, "Aarti", updated.Title)
	assert.Equal(t, "bring ghee", updated.Notes)

	_, err = svc.Update(context.Background(), AppointmentInput{ID: "zz", PriestID: "p1", Start: at(15, 0), End: at(16, 0)})
	assert.ErrorIs(t, err, ErrMissingAppointment)
	assert.Len(t, src.updated, 2)
}

func TestAppointmentService_ExistingSkipsOtherPriestsAndMalformed(t *testing.T) {
	src := &fakeSource{appointments: []model.Appointment{
		{ID: "a1", PriestID: "p2", Start: "2025-06-10T10:00:00Z", End: "2025-06-10T11:00:00Z"},
		{ID: "a2", PriestID: "p1", Start: "garbage"},
		{ID: "a3", PriestID: "p1", Start: "2025-06-10T14:00:00Z"},
	}}
	svc := newTestAppointments(t, src)

	existing, err := svc.Existing(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, existing, 1)
	assert.Equal(t, "a3", existing[0].ID)
	assert.Equal(t, 30*time.Minute, existing[0].End.Sub(existing[0].Start))
}
