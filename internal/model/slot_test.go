package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:00", "09:00", false},
		{"14:30:00", "14:30", false},
		{" 23:00 ", "23:00", false},
		{"24:00", "", true},
		{"12:5", "", true},
		{"noon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSlot(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSlotCalendar_Universe(t *testing.T) {
	slots := AvailabilityCalendar.Slots()
	require.Len(t, slots, 21)
	assert.Equal(t, Slot("03:00"), slots[0])
	assert.Equal(t, Slot("23:00"), slots[len(slots)-1])

	appt := AppointmentCalendar.Slots()
	require.Len(t, appt, 42)
	assert.Equal(t, Slot("23:30"), appt[len(appt)-1])
}

func TestSlotCalendar_Contains(t *testing.T) {
	assert.True(t, AvailabilityCalendar.Contains("03:00"))
	assert.True(t, AvailabilityCalendar.Contains("23:00"))
	assert.False(t, AvailabilityCalendar.Contains("02:00"))
	assert.False(t, AvailabilityCalendar.Contains("10:30"))
	assert.True(t, AppointmentCalendar.Contains("10:30"))
	assert.False(t, AvailabilityCalendar.Contains("bad"))
}

func TestSlotCalendar_Floor(t *testing.T) {
	assert.Equal(t, Slot("09:00"), AvailabilityCalendar.Floor(9*60+59))
	assert.Equal(t, Slot("09:30"), AppointmentCalendar.Floor(9*60+45))
	assert.Equal(t, Slot("14:00"), AvailabilityCalendar.FloorTime(time.Date(2025, 6, 10, 14, 20, 0, 0, time.UTC)))
	assert.False(t, AvailabilityCalendar.Contains(AvailabilityCalendar.Floor(90)))
}

func TestSlot_Compact(t *testing.T) {
	slot, err := SlotFromCompact(Slot("07:00").Compact())
	require.NoError(t, err)
	assert.Equal(t, Slot("07:00"), slot)

	_, err = SlotFromCompact("700")
	assert.Error(t, err)
}

func TestSlot_On(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC).Equal(Slot("14:30").On(day)))
}

func TestTemplate_Normalize(t *testing.T) {
	tpl := Template{Start: "09:00", End: "17:00", Breaks: []Slot{"13:00", "12:00", "20:00", "12:00", "7:00"}}

	got := tpl.Normalize()

	assert.Equal(t, []Slot{"12:00", "13:00"}, got.Breaks)
	assert.Equal(t, []Slot{"12:00"}, got.ToggleBreak("13:00").Breaks)
	assert.Equal(t, []Slot{"12:00", "13:00", "14:00"}, got.ToggleBreak("14:00").Breaks)
}

func TestBooking_Blocks(t *testing.T) {
	assert.True(t, Booking{Status: "accepted"}.Blocks())
	assert.True(t, Booking{Status: BookingStatusConfirmed}.Blocks())
	assert.False(t, Booking{Status: BookingStatusPending}.Blocks())
	assert.False(t, Booking{Status: ""}.Blocks())
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	ts, err := ParseTimestamp("2025-06-10T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())

	ts, err = ParseTimestamp("2025-06-10T10:00", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 10, 10, 0, 0, 0, loc).Equal(ts))

	_, err = ParseTimestamp("tomorrow", loc)
	assert.Error(t, err)
}
