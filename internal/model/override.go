package model

// AvailabilityOverride marks one slot of one date as Unavailable for a priest.
type AvailabilityOverride struct {
	PriestID string `json:"priestId,omitempty"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
}

// SaveAvailabilityRequest replaces the whole override set of one date.
type SaveAvailabilityRequest struct {
	PriestID         string   `json:"priestId"`
	Date             string   `json:"date"`
	UnavailableSlots []string `json:"unavailableSlots"`
}

// NewSaveAvailabilityRequest builds a replacement request from a slot list.
// An empty list clears every override of the date.
func NewSaveAvailabilityRequest(priestID, date string, unavailable []Slot) SaveAvailabilityRequest {
	slots := make([]string, 0, len(unavailable))
	for _, slot := range unavailable {
		slots = append(slots, string(slot))
	}
	return SaveAvailabilityRequest{
		PriestID:         priestID,
		Date:             date,
		UnavailableSlots: slots,
	}
}
