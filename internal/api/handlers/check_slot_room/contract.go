package check_slot_room

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/service/capacity"
)

type SlotService interface {
	HasRoom(ctx context.Context, slotID int64, requested map[string]int) (capacity.CheckResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
