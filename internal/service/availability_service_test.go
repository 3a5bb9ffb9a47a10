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

func newTestService(t *testing.T, src AvailabilitySource) *AvailabilityService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewAvailabilityService(src, NewAggregator(model.AvailabilityCalendar, time.UTC, logger), logger)
}

func TestAvailabilityService_RefreshMergesSources(t *testing.T) {
	src := &fakeSource{
		overrides:    []model.AvailabilityOverride{{SlotDate: "2025-06-10", SlotTime: "09:00"}},
		bookings:     []model.Booking{{ID: "b1", Date: "2025-06-11", Start: "10:00", Status: "CONFIRMED"}},
		appointments: []model.Appointment{{ID: "a1", Start: "2025-06-12T16:00:00Z"}},
	}
	svc := newTestService(t, src)

	grid, err := svc.Refresh(context.Background(), "p1")
	require.NoError(t, err)

	assert.Len(t, grid, 3)
	assert.Equal(t, model.SlotUnavailable, grid["2025-06-10"]["09:00"])
	assert.Equal(t, model.SlotBooked, grid["2025-06-11"]["10:00"])
	assert.Equal(t, model.SlotBooked, grid["2025-06-12"]["16:00"])

	_, ok := svc.FetchedAt("p1")
	assert.True(t, ok)

	require.Len(t, svc.DayBookings("p1", "2025-06-11"), 1)
	assert.Empty(t, svc.DayBookings("p1", "2025-06-10"))
}

func TestAvailabilityService_FetchFailureKeepsPreviousGrid(t *testing.T) {
	src := &fakeSource{overrides: []model.AvailabilityOverride{{SlotDate: "2025-06-10", SlotTime: "09:00"}}}
	svc := newTestService(t, src)

	_, err := svc.Refresh(context.Background(), "p1")
	require.NoError(t, err)

	src.mu.Lock()
	src.overrides = nil
	src.bookingsErr = errBackendDown
	src.mu.Unlock()

	_, err = svc.Refresh(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, errBackendDown)

	grid, ok := svc.Committed("p1")
	require.True(t, ok)
	assert.Equal(t, model.SlotUnavailable, grid["2025-06-10"]["09:00"])
}

func TestAvailabilityService_DayDefaultsToAvailable(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	day := svc.Day("p1", "2030-01-01")

	assert.True(t, day.Equal(model.AvailabilityCalendar.EmptyDay()))
}

func TestAvailabilityService_CommittedIsACopy(t *testing.T) {
	src := &fakeSource{overrides: []model.AvailabilityOverride{{SlotDate: "2025-06-10", SlotTime: "09:00"}}}
	svc := newTestService(t, src)
	_, err := svc.Refresh(context.Background(), "p1")
	require.NoError(t, err)

	grid, _ := svc.Committed("p1")
	grid["2025-06-10"]["09:00"] = model.SlotAvailable

	assert.Equal(t, model.SlotUnavailable, svc.Day("p1", "2025-06-10")["09:00"])
}

func TestAvailabilityService_SaveDay(t *testing.T) {
	src := &fakeSource{overrides: []model.AvailabilityOverride{
		{SlotDate: "2025-06-10", SlotTime: "18:00"},
		{SlotDate: "2025-06-11", SlotTime: "18:00"},
	}}
	svc := newTestService(t, src)

	require.NoError(t, svc.SaveDay(context.Background(), "p1", "2025-06-10", []model.Slot{"09:00"}))

	assert.Equal(t, []model.Slot{"09:00"}, svc.Day("p1", "2025-06-10").Unavailable())
	assert.Equal(t, []model.Slot{"18:00"}, svc.Day("p1", "2025-06-11").Unavailable())

	// an empty set clears the date
	require.NoError(t, svc.SaveDay(context.Background(), "p1", "2025-06-10", nil))
	assert.Empty(t, svc.Day("p1", "2025-06-10").Unavailable())
	assert.Equal(t, []string{}, src.saves[1].UnavailableSlots)

	err := svc.SaveDay(context.Background(), "p1", "June 10", nil)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAvailabilityService_Month(t *testing.T) {
	src := &fakeSource{
		overrides: []model.AvailabilityOverride{{SlotDate: "2025-02-03", SlotTime: "09:00"}},
		bookings:  []model.Booking{{ID: "b1", Date: "2025-02-03", Start: "10:00", Status: "ACCEPTED"}},
	}
	svc := newTestService(t, src)
	_, err := svc.Refresh(context.Background(), "p1")
	require.NoError(t, err)

	month := svc.Month("p1", time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC))

	require.Len(t, month, 28)
	assert.Equal(t, "2025-02-01", month[0].Date)
	assert.Equal(t, model.DaySummary{
		Date:        "2025-02-03",
		Available:   len(model.AvailabilityCalendar.Slots()) - 2,
		Unavailable: 1,
		Booked:      1,
	}, month[2])
}

func TestAvailabilityService_Range(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	days := svc.Range("p1",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))

	require.Len(t, days, 3)
	assert.Equal(t, "2025-06-12", days[2].Date)
}
