package formatting

import (
	"strconv"
	"time"
)

// FormatDate renders a date for messages: "Tue, 10 Jun 2025".
func FormatDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006")
}

// FormatMonth renders "June 2025".
func FormatMonth(t time.Time) string {
	return t.Format("January 2006")
}

func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange renders "10:00-11:30".
func FormatTimeRange(start, end time.Time) string {
	return FormatTime(start) + "-" + FormatTime(end)
}

// WeekdayHeaders are the column titles of the month calendar, Monday first.
func WeekdayHeaders() []string {
	return []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
}

// MondayIndex returns 0 for Monday and 6 for Sunday.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
