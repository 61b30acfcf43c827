package get_slot_snapshot

import "github.com/m04kA/SMC-ExperienceBooking/internal/domain"

// SnapshotResponse занятые места слота рядом с объявленной емкостью
type SnapshotResponse struct {
	SlotID          int64          `json:"slot_id"`
	CapacityTotal   int            `json:"capacity_total"`
	CapacityPerType map[string]int `json:"capacity_per_type"`
	Booked          int            `json:"booked"`
	BookedPerType   map[string]int `json:"booked_per_type"`
	Remaining       int            `json:"remaining"`
}

func newSnapshotResponse(slot *domain.Slot, snapshot domain.CapacitySnapshot) SnapshotResponse {
	remaining := slot.Capacity.Total() - snapshot.Total
	if remaining < 0 {
		remaining = 0
	}
	perType := snapshot.PerType
	if perType == nil {
		perType = map[string]int{}
	}

	return SnapshotResponse{
		SlotID:          slot.ID,
		CapacityTotal:   slot.Capacity.Total(),
		CapacityPerType: slot.Capacity.PerType(),
		Booked:          snapshot.Total,
		BookedPerType:   perType,
		Remaining:       remaining,
	}
}
