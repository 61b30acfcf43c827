package get_upcoming_slots

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

type SlotService interface {
	GetUpcomingForExperience(ctx context.Context, experienceID int64, limit int) ([]domain.SlotView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
