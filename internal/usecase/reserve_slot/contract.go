package reserve_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/capacity"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Slot, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
}

// SlotMaterializer материализует вхождение правила в слот (*slots.Manager)
type SlotMaterializer interface {
	EnsureSlotForOccurrence(ctx context.Context, experienceID int64, tr domain.TimeRange) (int64, error)
}

// OccurrenceChecker проверяет, что окно порождается правилом повторения (*recurrence.Expander)
type OccurrenceChecker interface {
	Produces(rule domain.RecurrenceRule, tr domain.TimeRange) (bool, error)
	Location() *time.Location
}

// CapacityManager проверки емкости (*capacity.Manager)
type CapacityManager interface {
	GetCapacitySnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error)
	CheckCapacityWithSnapshot(capacity domain.SlotCapacity, snapshot domain.CapacitySnapshot, requested map[string]int) capacity.CheckResult
}

// ReservationRepository интерфейс репозитория резервов
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// ExperienceSource источник настроек доступности впечатлений
type ExperienceSource interface {
	GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик созданных холдов
type Metrics interface {
	IncHoldCreated()
}

// TokenGenerator генератор токенов холда
type TokenGenerator func() string

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
