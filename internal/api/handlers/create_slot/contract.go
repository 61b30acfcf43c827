package create_slot

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/slots"
)

type SlotService interface {
	CreateSlot(ctx context.Context, req slots.CreateSlotRequest) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
