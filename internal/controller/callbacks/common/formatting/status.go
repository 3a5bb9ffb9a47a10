package formatting

import "github.com/templeseva/priest_scheduler/internal/model"

// SlotStatusDisplay is how a slot status is shown in chat.
type SlotStatusDisplay struct {
	Emoji string
	Text  string
}

func GetSlotStatusDisplay(status model.SlotStatus) SlotStatusDisplay {
	displays := map[model.SlotStatus]SlotStatusDisplay{
		model.SlotAvailable:   {"🟢", "Available"},
		model.SlotUnavailable: {"⛔", "Unavailable"},
		model.SlotBooked:      {"📌", "Booked"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return SlotStatusDisplay{"❓", "Unknown"}
}

// SlotButtonText renders a slot for an inline button: "🟢 09:00".
func SlotButtonText(slot model.Slot, status model.SlotStatus) string {
	return GetSlotStatusDisplay(status).Emoji + " " + string(slot)
}

// Legend is the status legend printed under day screens.
func Legend() string {
	return "🟢 available  ⛔ unavailable  📌 booked"
}

// DayCounters renders "12 🟢 · 7 ⛔ · 2 📌".
func DayCounters(summary model.DaySummary) string {
	return itoa(summary.Available) + " 🟢 · " + itoa(summary.Unavailable) + " ⛔ · " + itoa(summary.Booked) + " 📌"
}

// MonthMarker marks a day button in the month calendar: booked beats unavailable.
func MonthMarker(summary model.DaySummary) string {
	switch {
	case summary.Booked > 0:
		return "📌"
	case summary.Unavailable > 0:
		return "⛔"
	default:
		return ""
	}
}
