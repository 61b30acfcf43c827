package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	reserveSlot "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/reserve_slot"
)

const (
	msgInvalidExperienceID = "некорректный ID впечатления"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные параметры бронирования"
	msgCustomerMismatch    = "customer_id не совпадает с авторизованным пользователем"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/experiences/{experienceId}/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	experienceID, err := handlers.PathInt64(r, "experienceId")
	if err != nil {
		h.logger.Warn("POST /experiences/{id}/holds - Invalid experience ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExperienceID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /experiences/{id}/holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Авторизованный покупатель имеет приоритет над customer_id из тела, гость = 0
	customerID := req.CustomerID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		if req.CustomerID != 0 && req.CustomerID != userID {
			h.logger.Warn("POST /experiences/{id}/holds - Customer mismatch: body=%d, header=%d", req.CustomerID, userID)
			handlers.RespondForbidden(w, msgCustomerMismatch)
			return
		}
		customerID = userID
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(experienceID, customerID))
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("POST /experiences/{id}/holds - Rejected: experience_id=%d, code=%s", experienceID, de.Code)
			handlers.RespondDomainError(w, de)
			return
		}

		switch {
		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /experiences/{id}/holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /experiences/{id}/holds - Failed to reserve: experience_id=%d, error=%v", experienceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /experiences/{id}/holds - Hold created: reservation_id=%d, slot_id=%d",
		result.ReservationID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
