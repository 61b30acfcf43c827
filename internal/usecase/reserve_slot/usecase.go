package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/ptr"
)

// UseCase use case для временного резерва мест в слоте (холд на время оформления)
type UseCase struct {
	slots        SlotRepository
	materializer SlotMaterializer
	occurrences  OccurrenceChecker
	capacity     CapacityManager
	reservations ReservationRepository
	experiences  ExperienceSource
	txManager    TransactionManager
	metrics      Metrics
	holdTTL      time.Duration
	newToken     TokenGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	materializer SlotMaterializer,
	occurrences OccurrenceChecker,
	capacity CapacityManager,
	reservations ReservationRepository,
	experiences ExperienceSource,
	txManager TransactionManager,
	metrics Metrics,
	holdTTL time.Duration,
	logger Logger,
) *UseCase {
	if holdTTL <= 0 {
		holdTTL = domain.DefaultHoldTTL
	}
	return &UseCase{
		slots:        slots,
		materializer: materializer,
		occurrences:  occurrences,
		capacity:     capacity,
		reservations: reservations,
		experiences:  experiences,
		txManager:    txManager,
		metrics:      metrics,
		holdTTL:      holdTTL,
		newToken:     uuid.NewString,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания холда
//
// Проверка емкости и вставка резерва выполняются в одной SERIALIZABLE транзакции
// под блокировкой строки слота, поэтому два параллельных запроса не могут продать одно место дважды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: experience=%d, slot=%d, start=%q, end=%q, customer=%d",
		req.ExperienceID, req.SlotID, req.Start, req.End, req.CustomerID)

	// 1. Валидация входных данных
	tickets, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки впечатления
	meta, err := uc.experiences.GetAvailability(ctx, req.ExperienceID)
	if err != nil {
		if catalog.IsNotFound(err) {
			uc.logger.Warn("ReserveSlot: experience id=%d not found", req.ExperienceID)
			return nil, errExperienceNotFound(req.ExperienceID)
		}
		uc.logger.Error("ReserveSlot: failed to get experience id=%d: %v", req.ExperienceID, err)
		return nil, fmt.Errorf("%w: failed to get experience: %v", ErrInternal, err)
	}

	// 4. Определяем слот; lead time проверяется до материализации вхождения
	slotID, err := uc.resolveSlot(ctx, req, meta, now)
	if err != nil {
		return nil, err
	}

	// 5. Проверка емкости и вставка резерва в одной транзакции
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем строку слота (FOR UPDATE)
		slot, err := uc.slots.FindByIDForUpdate(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return domain.ErrSlotNotFound(slotID)
			}
			uc.logger.Error("ReserveSlot: failed to lock slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: failed to lock slot: %w", ErrInternal, err)
		}

		// 5.2. Слот должен быть открыт
		if !slot.IsBookable() {
			uc.logger.Warn("ReserveSlot: slot id=%d is %s", slotID, slot.Status)
			return errNotBookable(slotID, slot.Status)
		}

		// 5.3. Пересчитываем занятые места внутри транзакции
		snapshot, err := uc.capacity.GetCapacitySnapshot(txCtx, slotID)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to get snapshot for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: failed to get snapshot: %w", ErrInternal, err)
		}

		check := uc.capacity.CheckCapacityWithSnapshot(slot.Capacity, snapshot, tickets)
		if !check.Available {
			uc.logger.Warn("ReserveSlot: capacity exceeded for slot id=%d: %v", slotID, check.Errors)
			return errCapacityExceeded(slotID, check.Remaining, check.Errors)
		}

		// 5.4. Создаем резерв с истекающим холдом
		reservation, err := uc.reservations.Create(txCtx, &domain.Reservation{
			SlotID:        slotID,
			ExperienceID:  req.ExperienceID,
			CustomerID:    req.CustomerID,
			Status:        domain.ReservationPending,
			Tickets:       tickets,
			HoldToken:     uc.newToken(),
			HoldExpiresAt: ptr.Ptr(now.Add(uc.holdTTL)),
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to create reservation for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncHoldCreated()
	uc.logger.Info("ReserveSlot: created reservation id=%d for slot id=%d, tickets=%d, expires at %s",
		created.ID, slotID, created.TotalTickets(), created.HoldExpiresAt.Format(time.RFC3339))

	return &Response{
		ReservationID: created.ID,
		SlotID:        slotID,
		HoldToken:     created.HoldToken,
		HoldExpiresAt: *created.HoldExpiresAt,
		Status:        string(created.Status),
		Tickets:       created.Tickets,
	}, nil
}

// resolveSlot возвращает ID слота: существующего по ID или материализованного из вхождения.
// Вхождение материализуется только после проверки lead time
func (uc *UseCase) resolveSlot(ctx context.Context, req *Request, meta *domain.ExperienceAvailability, now time.Time) (int64, error) {
	if req.SlotID > 0 {
		slot, err := uc.slots.FindByID(ctx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("ReserveSlot: slot id=%d not found", req.SlotID)
				return 0, domain.ErrSlotNotFound(req.SlotID)
			}
			uc.logger.Error("ReserveSlot: failed to get slot id=%d: %v", req.SlotID, err)
			return 0, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if slot.ExperienceID != req.ExperienceID {
			uc.logger.Warn("ReserveSlot: slot id=%d belongs to experience id=%d", req.SlotID, slot.ExperienceID)
			return 0, domain.ErrSlotNotFound(req.SlotID)
		}
		if err := uc.checkLeadTime(slot.ID, slot.TimeRange, meta, now); err != nil {
			return 0, err
		}
		return slot.ID, nil
	}

	tr, err := domain.TimeRangeFromISOStrings(req.Start, req.End, uc.occurrences.Location())
	if err != nil {
		uc.logger.Warn("ReserveSlot: invalid window: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	produced, err := uc.occurrences.Produces(meta.Recurrence, tr)
	if err != nil {
		uc.logger.Warn("ReserveSlot: recurrence rule of experience id=%d is unusable: %v", req.ExperienceID, err)
		return 0, errOccurrenceNotFound(req.ExperienceID, tr)
	}
	if !produced {
		uc.logger.Warn("ReserveSlot: window %s is not an occurrence of experience id=%d", tr.Key(), req.ExperienceID)
		return 0, errOccurrenceNotFound(req.ExperienceID, tr)
	}

	if err := uc.checkLeadTime(0, tr, meta, now); err != nil {
		return 0, err
	}

	slotID, err := uc.materializer.EnsureSlotForOccurrence(ctx, req.ExperienceID, tr)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return 0, err
		}
		uc.logger.Error("ReserveSlot: failed to materialize slot: %v", err)
		return 0, fmt.Errorf("%w: failed to materialize slot: %v", ErrInternal, err)
	}

	return slotID, nil
}

// checkLeadTime slotID = 0 для еще не материализованного вхождения
func (uc *UseCase) checkLeadTime(slotID int64, tr domain.TimeRange, meta *domain.ExperienceAvailability, now time.Time) error {
	if tr.Start().Before(now.Add(meta.LeadTime())) {
		uc.logger.Warn("ReserveSlot: slot id=%d window=%s starts within lead time of %dh", slotID, tr.Key(), meta.LeadTimeHours)
		return errLeadTime(slotID, meta.LeadTimeHours)
	}
	return nil
}
