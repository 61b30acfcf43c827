package release_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// ReservationRepository интерфейс для работы с резервами
type ReservationRepository interface {
	GetByHoldToken(ctx context.Context, token string) (*domain.Reservation, error)
	ReleaseHold(ctx context.Context, token string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
