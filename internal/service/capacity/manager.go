package capacity

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// Manager проверяет емкость слотов и валидирует ее изменение
type Manager struct {
	reservations ReservationAggregator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewManager создает новый экземпляр менеджера емкости
func NewManager(reservations ReservationAggregator, metrics Metrics, logger Logger) *Manager {
	return &Manager{
		reservations: reservations,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CheckCapacity проверяет запрос против объявленной емкости слота без учета текущих резервов
//
// Проверки независимы и обе выполняются всегда:
//   - сумма запрошенных билетов не больше общей емкости
//   - для каждого типа с объявленной подъемкостью запрошенное количество не больше нее
func (m *Manager) CheckCapacity(capacity domain.SlotCapacity, requested map[string]int) CheckResult {
	return m.evaluate(capacity.Total(), capacity.PerType(), requested)
}

// CheckCapacityWithSnapshot проверяет запрос против мест, оставшихся после снимка занятых
func (m *Manager) CheckCapacityWithSnapshot(capacity domain.SlotCapacity, snapshot domain.CapacitySnapshot, requested map[string]int) CheckResult {
	totalLeft := capacity.Total() - snapshot.Total
	if totalLeft < 0 {
		totalLeft = 0
	}

	// Исчерпанный тип остается в карте с нулем, чтобы проверка по нему не потерялась
	typeLeft := make(map[string]int)
	for t, declared := range capacity.PerType() {
		left := declared - snapshot.ForType(t)
		if left < 0 {
			left = 0
		}
		typeLeft[t] = left
	}

	return m.evaluate(totalLeft, typeLeft, requested)
}

// UpdateCapacity валидирует новую емкость
// Возвращает domain.Error с кодом capacity_invalid (400), если total < 0 или сумма по типам больше total
func (m *Manager) UpdateCapacity(total int, perType map[string]int) (domain.SlotCapacity, error) {
	if total < 0 {
		return domain.SlotCapacity{}, domain.ErrCapacityInvalid(
			"Capacity total must not be negative.",
			map[string]interface{}{"total": total},
		)
	}
	if total > domain.MaxSlotCapacity {
		return domain.SlotCapacity{}, domain.ErrCapacityInvalid(
			fmt.Sprintf("Capacity total must not exceed %d.", domain.MaxSlotCapacity),
			map[string]interface{}{"total": total},
		)
	}

	capacity, err := domain.NewSlotCapacity(total, perType)
	if err != nil {
		return domain.SlotCapacity{}, domain.ErrCapacityInvalid(err.Error(), map[string]interface{}{"total": total})
	}

	for _, t := range capacity.Types() {
		if qty := capacity.ForType(t); qty > total {
			return domain.SlotCapacity{}, domain.ErrCapacityInvalid(
				fmt.Sprintf("Per-type capacity of %s (%d) exceeds total capacity (%d).", t, qty, total),
				map[string]interface{}{
					"total":     total,
					"type":      t,
					"type_size": qty,
				},
			)
		}
	}

	if !capacity.IsValid() {
		return domain.SlotCapacity{}, domain.ErrCapacityInvalid(
			fmt.Sprintf("Per-type capacity (%d) exceeds total capacity (%d).", capacity.PerTypeSum(), total),
			map[string]interface{}{
				"total":        total,
				"per_type_sum": capacity.PerTypeSum(),
				"per_type":     capacity.PerType(),
			},
		)
	}

	return capacity, nil
}

// GetCapacitySnapshot возвращает занятые места слота, пересчитанные по живым резервам
// Для slotID <= 0 возвращает нулевой снимок без запроса к хранилищу
func (m *Manager) GetCapacitySnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error) {
	if slotID <= 0 {
		return domain.EmptySnapshot(), nil
	}

	snapshot, err := m.reservations.SnapshotBySlot(ctx, slotID, m.timeProvider.Now())
	if err != nil {
		m.logger.Error("GetCapacitySnapshot: slot_id=%d: %v", slotID, err)
		return domain.CapacitySnapshot{}, fmt.Errorf("%w: GetCapacitySnapshot - aggregate reservations: %w", ErrInternal, err)
	}

	return snapshot, nil
}

func (m *Manager) evaluate(totalLeft int, typeLeft map[string]int, requested map[string]int) CheckResult {
	result := CheckResult{
		Available: true,
		Remaining: make(map[string]int),
		Errors:    make([]string, 0),
	}

	normalized := normalizeRequest(requested)

	sum := 0
	for _, qty := range normalized {
		sum += qty
	}

	if sum > totalLeft {
		result.Available = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Requested %d tickets but only %d available.", sum, totalLeft))
		m.metrics.IncCapacityRejection(rejectTotal)
	}

	types := make([]string, 0, len(normalized))
	for t := range normalized {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		qty := normalized[t]

		left, declared := typeLeft[t]
		if !declared {
			result.Remaining[t] = nonNegative(totalLeft - sum)
			continue
		}

		if qty > left {
			result.Available = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("Requested %d %s tickets but only %d available.", qty, t, left))
			m.metrics.IncCapacityRejection(rejectPerType)
		}
		result.Remaining[t] = nonNegative(left - qty)
	}

	return result
}

func normalizeRequest(requested map[string]int) map[string]int {
	out := make(map[string]int, len(requested))
	for k, qty := range requested {
		key := domain.SanitizeKey(k)
		if key == "" || qty <= 0 {
			continue
		}
		out[key] = clampQty(out[key] + clampQty(qty))
	}
	return out
}

// clampQty ограничивает количество значением MaxSlotCapacity+1: такой запрос все равно
// не помещается ни в один слот, а сумма по типам не переполняет int
func clampQty(qty int) int {
	if qty > domain.MaxSlotCapacity {
		return domain.MaxSlotCapacity + 1
	}
	return qty
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
