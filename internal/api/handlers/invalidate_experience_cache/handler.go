package invalidate_experience_cache

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
)

const msgInvalidExperienceID = "некорректный ID впечатления"

type Handler struct {
	cache  ExperienceCache
	logger Logger
}

func NewHandler(cache ExperienceCache, logger Logger) *Handler {
	return &Handler{
		cache:  cache,
		logger: logger,
	}
}

// Handle DELETE /api/v1/experiences/{experienceId}/cache
// Вызывается каталогом после сохранения настроек впечатления
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	experienceID, err := handlers.PathInt64(r, "experienceId")
	if err != nil {
		h.logger.Warn("DELETE /experiences/{id}/cache - Invalid experience ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExperienceID)
		return
	}

	if err := h.cache.Invalidate(r.Context(), experienceID); err != nil {
		h.logger.Error("DELETE /experiences/{id}/cache - Failed to invalidate: experience_id=%d, error=%v", experienceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /experiences/{id}/cache - Cache invalidated: experience_id=%d", experienceID)
	w.WriteHeader(http.StatusNoContent)
}
