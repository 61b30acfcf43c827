package slot

import "github.com/m04kA/SMC-ExperienceBooking/internal/domain"

// CreateParams данные для создания слота
type CreateParams struct {
	ExperienceID    int64
	TimeRange       domain.TimeRange
	CapacityTotal   int
	CapacityPerType map[string]int
	Status          domain.SlotStatus
	ResourceLock    map[string]interface{}
	PriceRules      map[string]interface{}
}

// Filter фильтр для выборки слотов по временному окну
type Filter struct {
	ExperienceID int64               // 0 = все впечатления
	Statuses     []domain.SlotStatus // пусто = любые статусы
}
