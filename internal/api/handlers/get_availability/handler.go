package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/get_availability"
)

const (
	msgInvalidExperienceID = "некорректный ID впечатления"
	msgExperienceNotFound  = "впечатление не найдено"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/experiences/{experienceId}/availability?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	experienceID, err := handlers.PathInt64(r, "experienceId")
	if err != nil {
		h.logger.Warn("GET /experiences/{id}/availability - Invalid experience ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExperienceID)
		return
	}

	query := r.URL.Query()
	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ExperienceID: experienceID,
		From:         query.Get("from"),
		To:           query.Get("to"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrExperienceNotFound):
			h.logger.Warn("GET /experiences/{id}/availability - Experience not found: experience_id=%d", experienceID)
			handlers.RespondNotFound(w, msgExperienceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /experiences/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExperienceID)

		default:
			h.logger.Error("GET /experiences/{id}/availability - Failed to get availability: experience_id=%d, error=%v",
				experienceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /experiences/{id}/availability - Availability retrieved: experience_id=%d, slots=%d",
		experienceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
