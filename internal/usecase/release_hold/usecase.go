package release_hold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/reservation"
)

type UseCase struct {
	reservations ReservationRepository
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(reservations ReservationRepository, logger Logger) *UseCase {
	return &UseCase{
		reservations: reservations,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute снимает неподтвержденный холд, освобождая места слота.
// customerID = 0 означает гостя: такой запрос может снять только гостевой холд
func (uc *UseCase) Execute(ctx context.Context, token string, customerID int64) error {
	// 1. Валидация входных данных
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		uc.logger.Warn("ReleaseHold: invalid token %q", token)
		return fmt.Errorf("%w: malformed hold token", ErrInvalidInput)
	}

	// 2. Находим резерв
	res, err := uc.reservations.GetByHoldToken(ctx, token)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrHoldNotFound
		}
		uc.logger.Error("ReleaseHold: failed to get reservation by token: %v", err)
		return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Проверка владельца
	if res.CustomerID != customerID {
		uc.logger.Warn("ReleaseHold: reservation id=%d belongs to customer=%d, requested by %d",
			res.ID, res.CustomerID, customerID)
		return ErrAccessDenied
	}

	// 4. Снимать можно только ожидающие резервы
	if res.Status != domain.ReservationPending && res.Status != domain.ReservationPendingRequest {
		uc.logger.Warn("ReleaseHold: reservation id=%d is %s", res.ID, res.Status)
		return ErrHoldNotActive
	}

	// 5. Истекший холд уже не держит места
	if !res.HoldsSeatAt(uc.timeProvider.Now()) {
		uc.logger.Warn("ReleaseHold: reservation id=%d hold expired", res.ID)
		return ErrHoldNotActive
	}

	// 6. Отменяем холд
	if err := uc.reservations.ReleaseHold(ctx, token); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			// Статус сменился между чтением и обновлением
			return ErrHoldNotActive
		}
		uc.logger.Error("ReleaseHold: failed to release reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: failed to release hold: %v", ErrInternal, err)
	}

	uc.logger.Info("ReleaseHold: released reservation id=%d on slot id=%d", res.ID, res.SlotID)
	return nil
}
