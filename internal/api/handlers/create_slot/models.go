package create_slot

import (
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/slots"
)

// CreateSlotRequest HTTP request model
// start/end в UTC "Y-m-d H:i:s" либо ISO-8601 со смещением
type CreateSlotRequest struct {
	ExperienceID    int64                  `json:"experience_id"`
	Start           string                 `json:"start_datetime"`
	End             string                 `json:"end_datetime"`
	CapacityTotal   int                    `json:"capacity_total"`
	CapacityPerType map[string]int         `json:"capacity_per_type"`
	Status          string                 `json:"status"`
	ResourceLock    map[string]interface{} `json:"resource_lock"`
	PriceRules      map[string]interface{} `json:"price_rules"`
}

// ToServiceRequest создает запрос сервиса, разбирая окно слота
func (r *CreateSlotRequest) ToServiceRequest() (slots.CreateSlotRequest, error) {
	tr, err := ParseWindow(r.Start, r.End)
	if err != nil {
		return slots.CreateSlotRequest{}, err
	}

	return slots.CreateSlotRequest{
		ExperienceID:    r.ExperienceID,
		TimeRange:       tr,
		CapacityTotal:   r.CapacityTotal,
		CapacityPerType: r.CapacityPerType,
		Status:          r.Status,
		ResourceLock:    r.ResourceLock,
		PriceRules:      r.PriceRules,
	}, nil
}

// ParseWindow принимает сначала хранимый UTC формат, затем ISO-8601 (без смещения - как UTC)
func ParseWindow(start, end string) (domain.TimeRange, error) {
	if tr, err := domain.TimeRangeFromUTCStrings(start, end); err == nil {
		return tr, nil
	}
	return domain.TimeRangeFromISOStrings(start, end, nil)
}
