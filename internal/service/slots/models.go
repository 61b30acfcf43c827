package slots

import "github.com/m04kA/SMC-ExperienceBooking/internal/domain"

// CreateSlotRequest данные для явного создания слота
type CreateSlotRequest struct {
	ExperienceID    int64
	TimeRange       domain.TimeRange
	CapacityTotal   int
	CapacityPerType map[string]int
	Status          string // пусто = open
	ResourceLock    map[string]interface{}
	PriceRules      map[string]interface{}
}
