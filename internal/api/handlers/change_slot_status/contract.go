package change_slot_status

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

type SlotService interface {
	ChangeStatus(ctx context.Context, slotID int64, status string) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
