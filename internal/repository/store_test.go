package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templeseva/priest_scheduler/internal/model"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_SaveAvailabilityReplacesDate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_overrides").
		WithArgs("p1", "2025-06-10").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("INSERT INTO availability_overrides").
		WithArgs("p1", "2025-06-10", "09:00").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO availability_overrides").
		WithArgs("p1", "2025-06-10", "10:00").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	req := model.NewSaveAvailabilityRequest("p1", "2025-06-10", []model.Slot{"09:00", "10:00"})
	require.NoError(t, store.SaveAvailability(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveAvailabilityEmptyClearsDate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_overrides").
		WithArgs("p1", "2025-06-10").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	req := model.NewSaveAvailabilityRequest("p1", "2025-06-10", nil)
	require.NoError(t, store.SaveAvailability(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveAvailabilityRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)
	errInsert := errors.New("constraint violated")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_overrides").
		WithArgs("p1", "2025-06-10").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO availability_overrides").
		WithArgs("p1", "2025-06-10", "09:00").
		WillReturnError(errInsert)
	mock.ExpectRollback()

	req := model.NewSaveAvailabilityRequest("p1", "2025-06-10", []model.Slot{"09:00"})
	err := store.SaveAvailability(context.Background(), req)

	assert.ErrorIs(t, err, errInsert)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListOverrides(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"priest_id", "slot_date", "slot_time"}).
		AddRow("p1", "2025-06-10", "09:00").
		AddRow("p1", "2025-06-11", "18:00")
	mock.ExpectQuery("FROM availability_overrides").WithArgs("p1").WillReturnRows(rows)

	overrides, err := store.ListOverrides(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.AvailabilityOverride{
		{PriestID: "p1", SlotDate: "2025-06-10", SlotTime: "09:00"},
		{PriestID: "p1", SlotDate: "2025-06-11", SlotTime: "18:00"},
	}, overrides)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListBookings(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "priest_id", "date", "start", "status", "pooja_name", "customer_name"}).
		AddRow("b1", "p1", "2025-06-10", "10:00", model.BookingStatusConfirmed, "Homa", "Ravi")
	mock.ExpectQuery("FROM priest_bookings").WithArgs("p1").WillReturnRows(rows)

	bookings, err := store.ListBookings(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
	assert.True(t, bookings[0].Blocks())
	assert.Equal(t, "Homa", bookings[0].Pooja)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListFailure(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM availability_overrides").WithArgs("p1").WillReturnError(errors.New("connection reset"))

	_, err := store.ListOverrides(context.Background(), "p1")
	assert.ErrorContains(t, err, "get overrides by priest")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateAppointment(t *testing.T) {
	store, mock := newMockStore(t)
	appt := model.Appointment{
		ID:       "a1",
		PriestID: "p1",
		Start:    "2025-06-10T10:00:00+05:30",
		End:      "2025-06-10T11:00:00+05:30",
		Title:    "Homa",
	}

	mock.ExpectExec("UPDATE manual_appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Homa", "", "a1", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	_, err := store.UpdateAppointment(context.Background(), appt)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE manual_appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Homa", "", "a1", "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	_, err = store.UpdateAppointment(context.Background(), appt)
	assert.ErrorContains(t, err, "not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateAppointmentRejectsBadTimestamp(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.CreateAppointment(context.Background(), model.Appointment{ID: "a1", PriestID: "p1", Start: "soon"})
	assert.ErrorContains(t, err, "parse appointment start")
	assert.NoError(t, mock.ExpectationsWereMet())
}
