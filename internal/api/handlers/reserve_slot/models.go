package reserve_slot

import (
	"time"

	reserveSlot "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
// Слот задается либо slot_id, либо парой start/end вхождения расписания
type ReserveSlotRequest struct {
	SlotID     int64          `json:"slot_id"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Tickets    map[string]int `json:"tickets"`
	CustomerID int64          `json:"customer_id"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ReservationID int64          `json:"reservation_id"`
	SlotID        int64          `json:"slot_id"`
	HoldToken     string         `json:"hold_token"`
	HoldExpiresAt string         `json:"hold_expires_at"`
	Status        string         `json:"status"`
	Tickets       map[string]int `json:"tickets"`
}

// ToUseCaseRequest создает запрос use case
func (r *ReserveSlotRequest) ToUseCaseRequest(experienceID, customerID int64) *reserveSlot.Request {
	return &reserveSlot.Request{
		ExperienceID: experienceID,
		SlotID:       r.SlotID,
		Start:        r.Start,
		End:          r.End,
		Tickets:      r.Tickets,
		CustomerID:   customerID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *HoldResponse {
	return &HoldResponse{
		ReservationID: resp.ReservationID,
		SlotID:        resp.SlotID,
		HoldToken:     resp.HoldToken,
		HoldExpiresAt: resp.HoldExpiresAt.UTC().Format(time.RFC3339),
		Status:        resp.Status,
		Tickets:       resp.Tickets,
	}
}
