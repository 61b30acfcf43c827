package get_slot_snapshot

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

type SlotService interface {
	GetSlot(ctx context.Context, slotID int64) (*domain.Slot, error)
	GetSnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
