package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"   // waiting for the priest
	BookingStatusAccepted  BookingStatus = "ACCEPTED"  // accepted by the priest
	BookingStatusRejected  BookingStatus = "REJECTED"  // rejected by the priest
	BookingStatusConfirmed BookingStatus = "CONFIRMED" // paid and confirmed
)

// Booking is a customer booking as returned by the priest-bookings endpoint.
// Only the start slot is known; the duration is implicit.
type Booking struct {
	ID       string        `json:"id"`
	PriestID string        `json:"priestId,omitempty"`
	Date     string        `json:"date"`
	Start    string        `json:"start"`
	Status   BookingStatus `json:"status"`
	Pooja    string        `json:"poojaName,omitempty"`
	Customer string        `json:"customerName,omitempty"`
}

// Blocks reports whether the booking occupies its slot.
// Status is compared case-insensitively; anything but ACCEPTED/CONFIRMED is ignored.
func (b Booking) Blocks() bool {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(string(b.Status))))
	return status == BookingStatusAccepted || status == BookingStatusConfirmed
}

// Appointment is a manually entered appointment. It is always treated as confirmed.
// Start and End are ISO-8601 timestamps.
type Appointment struct {
	ID       string `json:"id,omitempty"`
	PriestID string `json:"priestId"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Title    string `json:"title,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ParseTimestamp parses the ISO timestamps used by the backend. Timestamps without
// a zone are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	layouts := []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatTimestamp renders t the way the backend expects it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Interval is a half-open [Start, End) span occupied by an appointment or booking.
type Interval struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [start, end) intersects the interval.
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}
