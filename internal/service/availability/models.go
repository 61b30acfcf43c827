package availability

import "github.com/m04kA/SMC-ExperienceBooking/internal/domain"

// RangeFilter фильтр выборки слотов по окну
type RangeFilter struct {
	ExperienceID int64               // 0 = все впечатления, виртуальные слоты не строятся
	Statuses     []domain.SlotStatus // пусто = open и closed
}

func (f RangeFilter) statuses() map[domain.SlotStatus]bool {
	list := f.Statuses
	if len(list) == 0 {
		list = domain.DefaultDisplayStatuses()
	}
	out := make(map[domain.SlotStatus]bool, len(list))
	for _, s := range list {
		out[domain.NormalizeSlotStatus(string(s))] = true
	}
	return out
}
