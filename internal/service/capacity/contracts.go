package capacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// ReservationAggregator считает занятые места слота
type ReservationAggregator interface {
	SnapshotBySlot(ctx context.Context, slotID int64, now time.Time) (domain.CapacitySnapshot, error)
}

// Metrics счетчики отказов по емкости
type Metrics interface {
	IncCapacityRejection(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
