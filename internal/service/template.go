package service

import "github.com/templeseva/priest_scheduler/internal/model"

// ApplyTemplate derives a day from a workday template.
// Booked slots are never touched; every other slot becomes Available when it lies in
// [start, end] and is not a break, Unavailable otherwise. start > end yields a day with
// every non-booked slot Unavailable. The input day is not modified.
func ApplyTemplate(calendar model.SlotCalendar, day model.DayAvailability, template model.Template) model.DayAvailability {
	tpl := template.Normalize()
	result := make(model.DayAvailability, len(calendar.Slots()))

	for _, slot := range calendar.Slots() {
		if day.Status(slot) == model.SlotBooked {
			result[slot] = model.SlotBooked
			continue
		}
		if tpl.Contains(slot) && !tpl.IsBreak(slot) {
			result[slot] = model.SlotAvailable
		} else {
			result[slot] = model.SlotUnavailable
		}
	}

	// keep booked entries that sit outside of the calendar universe
	for slot, status := range day {
		if _, ok := result[slot]; !ok && status == model.SlotBooked {
			result[slot] = status
		}
	}

	return result
}

// DefaultTemplate is the workday offered when a priest opens the template editor.
func DefaultTemplate() model.Template {
	return model.Template{
		Start: "09:00",
		End:   "17:00",
	}
}
