package model

// Template is a workday pattern: Available from Start to End inclusive except Breaks.
// It lives in UI state only and is never persisted.
type Template struct {
	Start  Slot   `json:"start"`
	End    Slot   `json:"end"`
	Breaks []Slot `json:"breaks,omitempty"`
}

// Contains reports whether the slot falls inside [Start, End].
func (t Template) Contains(slot Slot) bool {
	m := slot.Minutes()
	return m >= t.Start.Minutes() && m <= t.End.Minutes()
}

// IsBreak reports whether the slot is listed as a break.
func (t Template) IsBreak(slot Slot) bool {
	for _, b := range t.Breaks {
		if b.Minutes() == slot.Minutes() {
			return true
		}
	}
	return false
}

// Normalize keeps only the breaks inside [Start, End], sorted and without duplicates.
func (t Template) Normalize() Template {
	seen := make(map[int]bool, len(t.Breaks))
	breaks := make([]Slot, 0, len(t.Breaks))
	for _, b := range t.Breaks {
		m := b.Minutes()
		if m < 0 || seen[m] || !t.Contains(b) {
			continue
		}
		seen[m] = true
		breaks = append(breaks, SlotFromMinutes(m))
	}
	SortSlots(breaks)

	return Template{Start: t.Start, End: t.End, Breaks: breaks}
}

// ToggleBreak adds the slot to the breaks or removes it.
func (t Template) ToggleBreak(slot Slot) Template {
	breaks := make([]Slot, 0, len(t.Breaks)+1)
	found := false
	for _, b := range t.Breaks {
		if b.Minutes() == slot.Minutes() {
			found = true
			continue
		}
		breaks = append(breaks, b)
	}
	if !found {
		breaks = append(breaks, slot)
	}
	SortSlots(breaks)
	return Template{Start: t.Start, End: t.End, Breaks: breaks}
}
