package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Slot, error)
	FindByTimeRange(ctx context.Context, tr domain.TimeRange, filter slotRepo.Filter) ([]*domain.Slot, error)
}

// ExperienceSource источник настроек доступности впечатлений
type ExperienceSource interface {
	GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error)
}

// RecurrenceExpander раскрывает правило повторения в вхождения
type RecurrenceExpander interface {
	Expand(rule domain.RecurrenceRule, window domain.TimeRange) ([]domain.TimeRange, error)
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
