package get_availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/availability"
)

// UseCase use case для получения доступности впечатления с остатками мест
type UseCase struct {
	slots        SlotLister
	snapshots    SnapshotReader
	experiences  ExperienceSource
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotLister,
	snapshots SnapshotReader,
	experiences ExperienceSource,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:        slots,
		snapshots:    snapshots,
		experiences:  experiences,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности
// Остаток = объявленная емкость - живой снимок (для виртуального слота снимок нулевой).
// Слоты ближе lead time впечатления помечаются bookable=false
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: experience=%d, from=%q, to=%q", req.ExperienceID, req.From, req.To)

	// 1. Валидация входных данных
	if req.ExperienceID <= 0 {
		uc.logger.Warn("GetAvailability: invalid experience id=%d", req.ExperienceID)
		return nil, fmt.Errorf("%w: experience id must be positive", ErrInvalidInput)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Настройки впечатления нужны только для lead time, недоступный каталог не блокирует выдачу
	var leadTime time.Duration
	meta, err := uc.experiences.GetAvailability(ctx, req.ExperienceID)
	switch {
	case err == nil:
		leadTime = meta.LeadTime()
	case catalog.IsNotFound(err):
		uc.logger.Warn("GetAvailability: experience id=%d not found", req.ExperienceID)
		return nil, ErrExperienceNotFound
	default:
		uc.logger.Warn("GetAvailability: experience meta unavailable id=%d, lead time ignored: %v", req.ExperienceID, err)
	}

	// 4. Получаем слоты окна
	from, to := windowBounds(req.From, req.To, now)
	views, err := uc.slots.GetSlotsInRange(ctx, from, to, availability.RangeFilter{ExperienceID: req.ExperienceID})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get slots for experience id=%d: %v", req.ExperienceID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 5. Считаем остатки
	earliest := now.Add(leadTime)
	result := make([]SlotAvailability, 0, len(views))
	for _, v := range views {
		item, err := uc.toAvailability(ctx, v, earliest)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get snapshot for slot id=%d: %v", v.ID, err)
			return nil, fmt.Errorf("%w: failed to get snapshot: %v", ErrInternal, err)
		}
		result = append(result, item)
	}

	uc.logger.Info("GetAvailability: experience=%d, %d slots", req.ExperienceID, len(result))
	return &Response{ExperienceID: req.ExperienceID, Slots: result}, nil
}

func (uc *UseCase) toAvailability(ctx context.Context, v domain.SlotView, earliest time.Time) (SlotAvailability, error) {
	snapshot := domain.EmptySnapshot()
	if !v.Virtual && v.ID > 0 {
		var err error
		snapshot, err = uc.snapshots.GetCapacitySnapshot(ctx, v.ID)
		if err != nil {
			return SlotAvailability{}, err
		}
	}

	remaining := floorZero(v.CapacityTotal - snapshot.Total)

	perType := make(map[string]int, len(v.CapacityPerType))
	for t, declared := range v.CapacityPerType {
		left := floorZero(declared - snapshot.ForType(t))
		if left > remaining {
			left = remaining
		}
		perType[t] = left
	}

	item := SlotAvailability{
		SlotID:                   v.ID,
		Start:                    v.StartDatetime,
		End:                      v.EndDatetime,
		Status:                   string(v.Status),
		CapacityTotal:            v.CapacityTotal,
		CapacityRemaining:        remaining,
		CapacityPerTypeRemaining: perType,
		Virtual:                  v.Virtual,
	}

	tr, err := v.TimeRange()
	if err != nil {
		return item, nil
	}
	item.Duration = tr.DurationMinutes()
	if v.Duration != nil {
		item.Duration = *v.Duration
	}
	item.Bookable = v.Status == domain.SlotStatusOpen && remaining > 0 && !tr.Start().Before(earliest)

	return item, nil
}

// windowBounds подставляет окно по умолчанию: [now, from + 30 дней]
func windowBounds(from, to string, now time.Time) (string, string) {
	if strings.TrimSpace(from) == "" {
		from = now.Format(time.RFC3339)
	}
	if strings.TrimSpace(to) == "" {
		start, err := domain.ParseFlexible(from, now.Location())
		if err != nil {
			start = now
		}
		to = start.Add(defaultWindow).Format(time.RFC3339)
	}
	return from, to
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
