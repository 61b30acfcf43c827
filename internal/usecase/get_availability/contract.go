package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/availability"
)

// SlotLister выборка слотов по окну (*availability.Calculator)
type SlotLister interface {
	GetSlotsInRange(ctx context.Context, start, end string, filter availability.RangeFilter) ([]domain.SlotView, error)
}

// SnapshotReader живые снимки занятых мест (*capacity.Manager)
type SnapshotReader interface {
	GetCapacitySnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error)
}

// ExperienceSource источник настроек доступности впечатлений
type ExperienceSource interface {
	GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error)
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
