package model

// DayAvailability maps every slot of one calendar date to its status.
type DayAvailability map[Slot]SlotStatus

// Clone returns an independent copy of the day.
func (d DayAvailability) Clone() DayAvailability {
	clone := make(DayAvailability, len(d))
	for slot, status := range d {
		clone[slot] = status
	}
	return clone
}

// Status returns the status of a slot, Available when the slot has no entry.
func (d DayAvailability) Status(slot Slot) SlotStatus {
	if status, ok := d[slot]; ok {
		return status
	}
	return SlotAvailable
}

// Slots returns the slots of the day in chronological order.
func (d DayAvailability) Slots() []Slot {
	slots := make([]Slot, 0, len(d))
	for slot := range d {
		slots = append(slots, slot)
	}
	SortSlots(slots)
	return slots
}

// WithStatus returns the slots that currently have the given status, sorted.
func (d DayAvailability) WithStatus(status SlotStatus) []Slot {
	var slots []Slot
	for slot, s := range d {
		if s == status {
			slots = append(slots, slot)
		}
	}
	SortSlots(slots)
	return slots
}

// Unavailable returns the priest-declared unavailable slots, sorted.
func (d DayAvailability) Unavailable() []Slot {
	return d.WithStatus(SlotUnavailable)
}

// Count returns how many slots have the given status.
func (d DayAvailability) Count(status SlotStatus) int {
	count := 0
	for _, s := range d {
		if s == status {
			count++
		}
	}
	return count
}

// Equal reports whether both days hold the same slot statuses.
func (d DayAvailability) Equal(other DayAvailability) bool {
	if len(d) != len(other) {
		return false
	}
	for slot, status := range d {
		if other[slot] != status {
			return false
		}
	}
	return true
}

// Grid holds the merged availability of one priest keyed by date (yyyy-MM-dd).
type Grid map[string]DayAvailability

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for date, day := range g {
		clone[date] = day.Clone()
	}
	return clone
}

// DaySummary is the per-date counters used by the month overview.
type DaySummary struct {
	Date        string `json:"date"`
	Available   int    `json:"available"`
	Unavailable int    `json:"unavailable"`
	Booked      int    `json:"booked"`
}

// Summary counts the statuses of one day.
func (d DayAvailability) Summary(date string) DaySummary {
	return DaySummary{
		Date:        date,
		Available:   d.Count(SlotAvailable),
		Unavailable: d.Count(SlotUnavailable),
		Booked:      d.Count(SlotBooked),
	}
}
