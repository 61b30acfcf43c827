package slots

import (
	"context"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/availability"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/capacity"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Slot, error)
	FindByExperienceAndTime(ctx context.Context, experienceID int64, tr domain.TimeRange) (*domain.Slot, error)
	Create(ctx context.Context, params slotRepo.CreateParams) (*domain.Slot, error)
	Update(ctx context.Context, slot *domain.Slot) error
	Delete(ctx context.Context, id int64) error
}

// ExperienceSource источник настроек доступности впечатлений
type ExperienceSource interface {
	GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error)
}

// AvailabilityCalculator расчет доступности (*availability.Calculator)
type AvailabilityCalculator interface {
	GetUpcomingForExperience(ctx context.Context, experienceID int64, limit int) ([]domain.SlotView, error)
	GetSlotsInRange(ctx context.Context, start, end string, filter availability.RangeFilter) ([]domain.SlotView, error)
	PassesLeadTime(ctx context.Context, slotID int64, leadTimeHours int) bool
	HasBufferConflict(ctx context.Context, experienceID int64, startUTC, endUTC string, bufferBeforeMinutes, bufferAfterMinutes int, excludeSlotID int64) bool
	HasBufferConflictStrict(ctx context.Context, experienceID int64, startUTC, endUTC string, bufferBeforeMinutes, bufferAfterMinutes int, excludeSlotID int64) (bool, error)
}

// CapacityManager проверки емкости (*capacity.Manager)
type CapacityManager interface {
	UpdateCapacity(total int, perType map[string]int) (domain.SlotCapacity, error)
	GetCapacitySnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error)
	CheckCapacityWithSnapshot(capacity domain.SlotCapacity, snapshot domain.CapacitySnapshot, requested map[string]int) capacity.CheckResult
}

// Metrics счетчики материализации слотов
type Metrics interface {
	IncSlotMaterialized(source string)
	IncMaterializationRace()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
