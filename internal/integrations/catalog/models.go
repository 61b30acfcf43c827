package catalog

import "github.com/m04kA/SMC-ExperienceBooking/internal/domain"

// availabilityResponse настройки доступности впечатления из каталога
// Значения capacity_per_type приходят как есть из мета-полей (строки, числа)
type availabilityResponse struct {
	ExperienceID        int64                  `json:"experience_id"`
	SlotCapacity        int                    `json:"slot_capacity"`
	CapacityPerType     map[string]interface{} `json:"capacity_per_type"`
	LeadTimeHours       int                    `json:"lead_time_hours"`
	BufferBeforeMinutes int                    `json:"buffer_before_minutes"`
	BufferAfterMinutes  int                    `json:"buffer_after_minutes"`
	Recurrence          domain.RecurrenceRule  `json:"recurrence"`
}

func (r availabilityResponse) toDomain(experienceID int64) *domain.ExperienceAvailability {
	id := r.ExperienceID
	if id <= 0 {
		id = experienceID
	}
	return &domain.ExperienceAvailability{
		ExperienceID:        id,
		SlotCapacity:        r.SlotCapacity,
		CapacityPerType:     domain.NormalizePerType(r.CapacityPerType),
		LeadTimeHours:       r.LeadTimeHours,
		BufferBeforeMinutes: r.BufferBeforeMinutes,
		BufferAfterMinutes:  r.BufferAfterMinutes,
		Recurrence:          r.Recurrence,
	}
}
