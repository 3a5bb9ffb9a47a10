package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by every API (yyyy-MM-dd).
const DateLayout = "2006-01-02"

// Slot is a time-of-day bucket identified by a zero-padded "HH:mm" string.
type Slot string

// SlotStatus is the merged status of a slot on a given date.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "Available"
	SlotUnavailable SlotStatus = "Unavailable"
	SlotBooked      SlotStatus = "Booked"
)

// SlotFromMinutes builds a slot from minutes since midnight.
func SlotFromMinutes(minutes int) Slot {
	return Slot(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// ParseSlot normalizes "H:mm", "HH:mm" and "HH:mm:ss" into a Slot.
func ParseSlot(value string) (Slot, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid slot %q", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid slot hour %q", value)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid slot minute %q", value)
	}

	return SlotFromMinutes(hour*60 + minute), nil
}

// Minutes returns minutes since midnight, or -1 for a malformed slot.
func (s Slot) Minutes() int {
	parsed, err := ParseSlot(string(s))
	if err != nil {
		return -1
	}
	hour, _ := strconv.Atoi(string(parsed[:2]))
	minute, _ := strconv.Atoi(string(parsed[3:]))
	return hour*60 + minute
}

// Hour returns the hour component of the slot.
func (s Slot) Hour() int {
	return s.Minutes() / 60
}

// Compact returns the slot without the colon ("09:00" -> "0900"), used in callback data.
func (s Slot) Compact() string {
	return strings.ReplaceAll(string(s), ":", "")
}

// SlotFromCompact parses the form produced by Compact.
func SlotFromCompact(value string) (Slot, error) {
	if len(value) != 4 {
		return "", fmt.Errorf("invalid compact slot %q", value)
	}
	return ParseSlot(value[:2] + ":" + value[2:])
}

// On returns the moment the slot starts on the given date.
func (s Slot) On(date time.Time) time.Time {
	minutes := s.Minutes()
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

// SortSlots sorts slots chronologically in place.
func SortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Minutes() < slots[j].Minutes()
	})
}

// SlotCalendar describes the fixed universe of slots for a day.
// First and Last are inclusive, all values are minutes since midnight.
type SlotCalendar struct {
	First int
	Last  int
	Step  int
}

var (
	// AvailabilityCalendar is the hourly availability grid, 03:00 to 23:00.
	AvailabilityCalendar = SlotCalendar{First: 3 * 60, Last: 23 * 60, Step: 60}

	// AppointmentCalendar is the 30-minute manual appointment grid, 03:00 to 23:30.
	AppointmentCalendar = SlotCalendar{First: 3 * 60, Last: 23*60 + 30, Step: 30}
)

// Slots returns every slot of the day in chronological order.
func (c SlotCalendar) Slots() []Slot {
	if c.Step <= 0 {
		return nil
	}
	slots := make([]Slot, 0, (c.Last-c.First)/c.Step+1)
	for m := c.First; m <= c.Last; m += c.Step {
		slots = append(slots, SlotFromMinutes(m))
	}
	return slots
}

// Contains reports whether the slot is part of the calendar universe.
func (c SlotCalendar) Contains(slot Slot) bool {
	m := slot.Minutes()
	if m < c.First || m > c.Last || c.Step <= 0 {
		return false
	}
	return (m-c.First)%c.Step == 0
}

// Floor maps a minute-of-day value onto the calendar granularity.
func (c SlotCalendar) Floor(minutes int) Slot {
	if c.Step <= 0 {
		return SlotFromMinutes(minutes)
	}
	offset := minutes - c.First
	if offset < 0 {
		// below the first slot; Contains filters these out
		return SlotFromMinutes(minutes - ((minutes%c.Step)+c.Step)%c.Step)
	}
	return SlotFromMinutes(c.First + offset/c.Step*c.Step)
}

// FloorTime floors a wall-clock moment onto the grid.
func (c SlotCalendar) FloorTime(t time.Time) Slot {
	return c.Floor(t.Hour()*60 + t.Minute())
}

// Duration returns the length of one slot.
func (c SlotCalendar) Duration() time.Duration {
	return time.Duration(c.Step) * time.Minute
}

// EmptyDay returns a day where every slot is Available.
func (c SlotCalendar) EmptyDay() DayAvailability {
	day := make(DayAvailability, len(c.Slots()))
	for _, slot := range c.Slots() {
		day[slot] = SlotAvailable
	}
	return day
}
