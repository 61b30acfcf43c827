package get_availability

import (
	getAvailability "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ExperienceID int64              `json:"experience_id"`
	Slots        []SlotAvailability `json:"slots"`
}

// SlotAvailability слот с остатком мест
type SlotAvailability struct {
	SlotID                   int64          `json:"slot_id"`
	Start                    string         `json:"start"`
	End                      string         `json:"end"`
	Duration                 int            `json:"duration"`
	Status                   string         `json:"status"`
	CapacityTotal            int            `json:"capacity_total"`
	CapacityRemaining        int            `json:"capacity_remaining"`
	CapacityPerTypeRemaining map[string]int `json:"capacity_per_type_remaining"`
	Virtual                  bool           `json:"virtual"`
	Bookable                 bool           `json:"bookable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotAvailability, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotAvailability{
			SlotID:                   s.SlotID,
			Start:                    s.Start,
			End:                      s.End,
			Duration:                 s.Duration,
			Status:                   s.Status,
			CapacityTotal:            s.CapacityTotal,
			CapacityRemaining:        s.CapacityRemaining,
			CapacityPerTypeRemaining: s.CapacityPerTypeRemaining,
			Virtual:                  s.Virtual,
			Bookable:                 s.Bookable,
		}
	}

	return &AvailabilityResponse{
		ExperienceID: resp.ExperienceID,
		Slots:        slots,
	}
}
