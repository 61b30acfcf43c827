package get_slots_in_range

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

type SlotService interface {
	GetSlotsInRangeByStrings(ctx context.Context, start, end string, experienceID int64, statuses []string) ([]domain.SlotView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
