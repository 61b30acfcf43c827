package slots

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/availability"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/capacity"
)

// Manager управляет жизненным циклом слотов: материализация вхождений, перенос,
// изменение емкости и статуса, удаление
type Manager struct {
	slots       SlotRepository
	experiences ExperienceSource
	calculator  AvailabilityCalculator
	capacity    CapacityManager
	metrics     Metrics
	logger      Logger
}

// NewManager создает новый экземпляр менеджера слотов
func NewManager(
	slots SlotRepository,
	experiences ExperienceSource,
	calculator AvailabilityCalculator,
	capacity CapacityManager,
	metrics Metrics,
	logger Logger,
) *Manager {
	return &Manager{
		slots:       slots,
		experiences: experiences,
		calculator:  calculator,
		capacity:    capacity,
		metrics:     metrics,
		logger:      logger,
	}
}

// EnsureSlotForOccurrence возвращает ID слота для вхождения, создавая открытый слот при необходимости
//
// Емкость нового слота берется из настроек впечатления. Если параллельный запрос успел создать
// тот же слот (нарушение уникальности окна), возвращается ID победителя
func (m *Manager) EnsureSlotForOccurrence(ctx context.Context, experienceID int64, tr domain.TimeRange) (int64, error) {
	if experienceID <= 0 {
		return 0, errInvalidExperience(experienceID, http.StatusBadRequest)
	}

	existing, err := m.slots.FindByExperienceAndTime(ctx, experienceID, tr)
	if err == nil {
		m.logger.Info("EnsureSlotForOccurrence: slot already exists id=%d experience_id=%d window=%s", existing.ID, experienceID, tr.Key())
		return existing.ID, nil
	}
	if !errors.Is(err, slotRepo.ErrSlotNotFound) {
		m.logger.Error("EnsureSlotForOccurrence: lookup failed experience_id=%d window=%s: %v", experienceID, tr.Key(), err)
		return 0, fmt.Errorf("%w: EnsureSlotForOccurrence - lookup slot: %v", ErrInternal, err)
	}

	meta, err := m.experiences.GetAvailability(ctx, experienceID)
	if err != nil {
		if catalog.IsNotFound(err) {
			m.logger.Warn("EnsureSlotForOccurrence: experience_id=%d not found", experienceID)
			return 0, errInvalidExperience(experienceID, http.StatusNotFound)
		}
		m.logger.Error("EnsureSlotForOccurrence: experience meta unavailable experience_id=%d: %v", experienceID, err)
		return 0, errSlotCreateFailed("Experience settings are unavailable.", http.StatusServiceUnavailable, experienceID, tr)
	}

	defaultCapacity, err := meta.DefaultCapacity()
	if err != nil {
		m.logger.Error("EnsureSlotForOccurrence: bad default capacity experience_id=%d: %v", experienceID, err)
		return 0, errSlotCreateFailed("Experience capacity is misconfigured.", http.StatusInternalServerError, experienceID, tr)
	}

	created, err := m.slots.Create(ctx, slotRepo.CreateParams{
		ExperienceID:    experienceID,
		TimeRange:       tr,
		CapacityTotal:   defaultCapacity.Total(),
		CapacityPerType: defaultCapacity.PerType(),
		Status:          domain.SlotStatusOpen,
	})
	if errors.Is(err, slotRepo.ErrDuplicateSlot) {
		m.metrics.IncMaterializationRace()
		winner, findErr := m.slots.FindByExperienceAndTime(ctx, experienceID, tr)
		if findErr != nil {
			m.logger.Error("EnsureSlotForOccurrence: re-read after race failed experience_id=%d window=%s: %v",
				experienceID, tr.Key(), findErr)
			return 0, errSlotCreateFailed("Unable to create slot.", http.StatusInternalServerError, experienceID, tr)
		}
		m.logger.Info("EnsureSlotForOccurrence: race resolved slot_id=%d experience_id=%d", winner.ID, experienceID)
		return winner.ID, nil
	}
	if err != nil {
		m.logger.Error("EnsureSlotForOccurrence: create failed experience_id=%d window=%s: %v", experienceID, tr.Key(), err)
		return 0, errSlotCreateFailed("Unable to create slot.", http.StatusInternalServerError, experienceID, tr)
	}

	m.metrics.IncSlotMaterialized(sourceOccurrence)
	m.logger.Info("EnsureSlotForOccurrence: created slot_id=%d experience_id=%d window=%s", created.ID, experienceID, tr.Key())
	return created.ID, nil
}

// GetSlot возвращает слот по ID
func (m *Manager) GetSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	return m.find(ctx, "GetSlot", slotID)
}

// CreateSlot создает слот с явным окном и емкостью
// Пересечение с соседними слотами с учетом буферов впечатления проверяется строго
func (m *Manager) CreateSlot(ctx context.Context, req CreateSlotRequest) (*domain.Slot, error) {
	if req.ExperienceID <= 0 {
		return nil, errInvalidExperience(req.ExperienceID, http.StatusBadRequest)
	}
	if req.TimeRange.Duration() <= 0 {
		return nil, errInvalidTimeRange("Slot end must be after its start.")
	}

	slotCapacity, err := m.capacity.UpdateCapacity(req.CapacityTotal, req.CapacityPerType)
	if err != nil {
		return nil, err
	}

	status := domain.SlotStatusOpen
	if req.Status != "" {
		status = domain.SlotStatus(req.Status)
		if !status.IsValid() || status == domain.SlotStatusCancelled {
			return nil, errInvalidTransition(0, domain.SlotStatusOpen, req.Status)
		}
	}

	meta, err := m.experiences.GetAvailability(ctx, req.ExperienceID)
	if err != nil {
		if catalog.IsNotFound(err) {
			m.logger.Warn("CreateSlot: experience_id=%d not found", req.ExperienceID)
			return nil, errInvalidExperience(req.ExperienceID, http.StatusNotFound)
		}
		m.logger.Error("CreateSlot: experience meta unavailable experience_id=%d: %v", req.ExperienceID, err)
		return nil, fmt.Errorf("%w: CreateSlot - experience meta: %v", ErrInternal, err)
	}

	tr := req.TimeRange.UTC()
	conflict, err := m.calculator.HasBufferConflictStrict(ctx, req.ExperienceID,
		tr.StartUTCString(), tr.EndUTCString(),
		meta.BufferBeforeMinutes, meta.BufferAfterMinutes, 0)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidWindow) {
			return nil, errInvalidTimeRange("Slot window is invalid.")
		}
		m.logger.Error("CreateSlot: buffer check failed experience_id=%d: %v", req.ExperienceID, err)
		return nil, fmt.Errorf("%w: CreateSlot - buffer check: %v", ErrInternal, err)
	}
	if conflict {
		m.logger.Warn("CreateSlot: buffer conflict experience_id=%d window=%s", req.ExperienceID, tr.Key())
		return nil, errBufferConflict(req.ExperienceID, tr)
	}

	created, err := m.slots.Create(ctx, slotRepo.CreateParams{
		ExperienceID:    req.ExperienceID,
		TimeRange:       tr,
		CapacityTotal:   slotCapacity.Total(),
		CapacityPerType: slotCapacity.PerType(),
		Status:          status,
		ResourceLock:    req.ResourceLock,
		PriceRules:      req.PriceRules,
	})
	if errors.Is(err, slotRepo.ErrDuplicateSlot) {
		return nil, errSlotCreateFailed("A slot already exists for this window.", http.StatusConflict, req.ExperienceID, tr)
	}
	if err != nil {
		m.logger.Error("CreateSlot: create failed experience_id=%d: %v", req.ExperienceID, err)
		return nil, errSlotCreateFailed("Unable to create slot.", http.StatusInternalServerError, req.ExperienceID, tr)
	}

	m.metrics.IncSlotMaterialized(sourceAdmin)
	m.logger.Info("CreateSlot: created slot_id=%d experience_id=%d", created.ID, req.ExperienceID)
	return created, nil
}

// MoveSlot переносит слот на новое окно
// Если окно с учетом буферов пересекается с другим слотом впечатления, перенос отклоняется
func (m *Manager) MoveSlot(ctx context.Context, slotID int64, tr domain.TimeRange) (*domain.Slot, error) {
	slot, err := m.find(ctx, "MoveSlot", slotID)
	if err != nil {
		return nil, err
	}
	if tr.Duration() <= 0 {
		return nil, errInvalidTimeRange("Slot end must be after its start.")
	}

	target := tr.UTC()
	meta, err := m.experiences.GetAvailability(ctx, slot.ExperienceID)
	if err != nil {
		m.logger.Warn("MoveSlot: buffer check skipped slot_id=%d: %v", slotID, err)
	} else if m.calculator.HasBufferConflict(ctx, slot.ExperienceID,
		target.StartUTCString(), target.EndUTCString(),
		meta.BufferBeforeMinutes, meta.BufferAfterMinutes, slotID) {
		return nil, errBufferConflict(slot.ExperienceID, target)
	}

	moved := slot.WithTimeRange(target)
	if err := m.update(ctx, "MoveSlot", moved); err != nil {
		return nil, err
	}

	m.logger.Info("MoveSlot: slot_id=%d moved to %s", slotID, target.Key())
	return moved, nil
}

// UpdateCapacity меняет емкость слота после валидации
func (m *Manager) UpdateCapacity(ctx context.Context, slotID int64, total int, perType map[string]int) (*domain.Slot, error) {
	slot, err := m.find(ctx, "UpdateCapacity", slotID)
	if err != nil {
		return nil, err
	}

	slotCapacity, err := m.capacity.UpdateCapacity(total, perType)
	if err != nil {
		m.logger.Warn("UpdateCapacity: rejected for slot_id=%d: %v", slotID, err)
		return nil, err
	}

	updated := slot.WithCapacity(slotCapacity)
	if err := m.update(ctx, "UpdateCapacity", updated); err != nil {
		return nil, err
	}

	m.logger.Info("UpdateCapacity: slot_id=%d total=%d", slotID, slotCapacity.Total())
	return updated, nil
}

// ChangeStatus меняет статус слота
// Допустимые переходы: open <-> closed, open|closed -> cancelled. cancelled - конечный статус
func (m *Manager) ChangeStatus(ctx context.Context, slotID int64, status string) (*domain.Slot, error) {
	slot, err := m.find(ctx, "ChangeStatus", slotID)
	if err != nil {
		return nil, err
	}

	target := domain.SlotStatus(status)
	if !canTransition(slot.Status, target) {
		m.logger.Warn("ChangeStatus: slot_id=%d %s -> %s rejected", slotID, slot.Status, status)
		return nil, errInvalidTransition(slotID, slot.Status, status)
	}
	if slot.Status == target {
		return slot, nil
	}

	updated := slot.WithStatus(target)
	if err := m.update(ctx, "ChangeStatus", updated); err != nil {
		return nil, err
	}

	m.logger.Info("ChangeStatus: slot_id=%d %s -> %s", slotID, slot.Status, target)
	return updated, nil
}

// DeleteSlot удаляет слот, если на нем нет активных резервов
func (m *Manager) DeleteSlot(ctx context.Context, slotID int64) error {
	if _, err := m.find(ctx, "DeleteSlot", slotID); err != nil {
		return err
	}

	snapshot, err := m.capacity.GetCapacitySnapshot(ctx, slotID)
	if err != nil {
		return fmt.Errorf("%w: DeleteSlot - snapshot: %v", ErrInternal, err)
	}
	if snapshot.Total > 0 {
		m.logger.Warn("DeleteSlot: slot_id=%d has %d held seats", slotID, snapshot.Total)
		return errSlotUpdateFailed("Slot has active reservations.", http.StatusConflict, slotID)
	}

	if err := m.slots.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return domain.ErrSlotNotFound(slotID)
		}
		m.logger.Error("DeleteSlot: slot_id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}

	m.logger.Info("DeleteSlot: slot_id=%d deleted", slotID)
	return nil
}

// GetSnapshot возвращает занятые места существующего слота
func (m *Manager) GetSnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error) {
	if _, err := m.find(ctx, "GetSnapshot", slotID); err != nil {
		return domain.CapacitySnapshot{}, err
	}

	snapshot, err := m.capacity.GetCapacitySnapshot(ctx, slotID)
	if err != nil {
		return domain.CapacitySnapshot{}, fmt.Errorf("%w: GetSnapshot - snapshot: %v", ErrInternal, err)
	}
	return snapshot, nil
}

// HasRoom проверяет, поместится ли запрос в слот с учетом живых резервов
// Используется при погашении подарочных сертификатов
func (m *Manager) HasRoom(ctx context.Context, slotID int64, requested map[string]int) (capacity.CheckResult, error) {
	slot, err := m.find(ctx, "HasRoom", slotID)
	if err != nil {
		return capacity.CheckResult{}, err
	}

	if !slot.IsBookable() {
		return capacity.CheckResult{
			Available: false,
			Remaining: map[string]int{},
			Errors:    []string{"Slot is not open for booking."},
		}, nil
	}

	snapshot, err := m.capacity.GetCapacitySnapshot(ctx, slotID)
	if err != nil {
		return capacity.CheckResult{}, fmt.Errorf("%w: HasRoom - snapshot: %v", ErrInternal, err)
	}

	return m.capacity.CheckCapacityWithSnapshot(slot.Capacity, snapshot, requested), nil
}

// GetUpcomingForExperience ближайшие открытые слоты впечатления
func (m *Manager) GetUpcomingForExperience(ctx context.Context, experienceID int64, limit int) ([]domain.SlotView, error) {
	return m.calculator.GetUpcomingForExperience(ctx, experienceID, limit)
}

// GetSlotsInRange слоты в окне с фильтром
func (m *Manager) GetSlotsInRange(ctx context.Context, start, end string, filter availability.RangeFilter) ([]domain.SlotView, error) {
	return m.calculator.GetSlotsInRange(ctx, start, end, filter)
}

// GetSlotsInRangeByStrings слоты в окне, заданном строками
//
// Deprecated: используйте GetSlotsInRange.
func (m *Manager) GetSlotsInRangeByStrings(ctx context.Context, start, end string, experienceID int64, statuses []string) ([]domain.SlotView, error) {
	filter := availability.RangeFilter{ExperienceID: experienceID}
	for _, s := range statuses {
		filter.Statuses = append(filter.Statuses, domain.NormalizeSlotStatus(s))
	}
	return m.calculator.GetSlotsInRange(ctx, start, end, filter)
}

// PassesLeadTime проверка минимального времени до начала слота
func (m *Manager) PassesLeadTime(ctx context.Context, slotID int64, leadTimeHours int) bool {
	return m.calculator.PassesLeadTime(ctx, slotID, leadTimeHours)
}

// HasBufferConflict рекомендательная проверка буферов
func (m *Manager) HasBufferConflict(
	ctx context.Context,
	experienceID int64,
	startUTC, endUTC string,
	bufferBeforeMinutes, bufferAfterMinutes int,
	excludeSlotID int64,
) bool {
	return m.calculator.HasBufferConflict(ctx, experienceID, startUTC, endUTC, bufferBeforeMinutes, bufferAfterMinutes, excludeSlotID)
}

func (m *Manager) find(ctx context.Context, op string, slotID int64) (*domain.Slot, error) {
	if slotID <= 0 {
		return nil, domain.ErrSlotNotFound(slotID)
	}

	slot, err := m.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			m.logger.Warn("%s: slot_id=%d not found", op, slotID)
			return nil, domain.ErrSlotNotFound(slotID)
		}
		m.logger.Error("%s: repository error for slot_id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}

func (m *Manager) update(ctx context.Context, op string, slot *domain.Slot) error {
	err := m.slots.Update(ctx, slot)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, slotRepo.ErrSlotNotFound):
		return domain.ErrSlotNotFound(slot.ID)
	case errors.Is(err, slotRepo.ErrDuplicateSlot):
		return errSlotUpdateFailed("Another slot already occupies this window.", http.StatusConflict, slot.ID)
	default:
		m.logger.Error("%s: update failed slot_id=%d: %v", op, slot.ID, err)
		return errSlotUpdateFailed("Unable to update slot.", http.StatusInternalServerError, slot.ID)
	}
}

func canTransition(from, to domain.SlotStatus) bool {
	if !to.IsValid() {
		return false
	}
	switch from {
	case domain.SlotStatusOpen, domain.SlotStatusClosed:
		return true
	default:
		return from == to
	}
}
