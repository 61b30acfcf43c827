package get_upcoming_slots

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
	msgInvalidExperienceID = "некорректный ID впечатления"
	msgInvalidLimit        = "некорректный limit"

	maxLimit = 100
)

type Handler struct {
	service      SlotService
	defaultLimit int
	logger       Logger
}

// NewHandler создает обработчик; defaultLimit применяется, когда limit не передан
func NewHandler(service SlotService, defaultLimit int, logger Logger) *Handler {
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = domain.DefaultUpcomingLimit
	}
	return &Handler{
		service:      service,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Handle GET /api/v1/experiences/{experienceId}/slots/upcoming?limit=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	experienceID, err := handlers.PathInt64(r, "experienceId")
	if err != nil {
		h.logger.Warn("GET /experiences/{id}/slots/upcoming - Invalid experience ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExperienceID)
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxLimit {
			h.logger.Warn("GET /experiences/{id}/slots/upcoming - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	views, err := h.service.GetUpcomingForExperience(r.Context(), experienceID, limit)
	if err != nil {
		h.logger.Error("GET /experiences/{id}/slots/upcoming - Failed to get slots: experience_id=%d, error=%v",
			experienceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, views)
}
