package release_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/api/middleware"
	releaseHold "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/release_hold"
)

const (
	msgInvalidToken  = "некорректный токен холда"
	msgHoldNotFound  = "холд не найден"
	msgHoldNotActive = "холд уже подтвержден или снят"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	useCase ReleaseHoldUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/holds/{holdToken}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["holdToken"]

	// Гость (без X-User-ID) может снять только гостевой холд
	customerID, _ := middleware.GetUserID(r.Context())

	if err := h.useCase.Execute(r.Context(), token, customerID); err != nil {
		switch {
		case errors.Is(err, releaseHold.ErrInvalidInput):
			h.logger.Warn("DELETE /holds/{token} - Invalid token: %v", err)
			handlers.RespondBadRequest(w, msgInvalidToken)

		case errors.Is(err, releaseHold.ErrHoldNotFound):
			h.logger.Warn("DELETE /holds/{token} - Hold not found")
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, releaseHold.ErrHoldNotActive):
			h.logger.Warn("DELETE /holds/{token} - Hold not active")
			handlers.RespondConflict(w, msgHoldNotActive)

		case errors.Is(err, releaseHold.ErrAccessDenied):
			h.logger.Warn("DELETE /holds/{token} - Access denied: customer_id=%d", customerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /holds/{token} - Failed to release hold: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /holds/{token} - Hold released: customer_id=%d", customerID)
	w.WriteHeader(http.StatusNoContent)
}
