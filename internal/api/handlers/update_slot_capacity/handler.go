package update_slot_capacity

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTotal       = "поле capacity_total обязательно"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/slots/{slotId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /slots/{id}/capacity - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/{id}/capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Total == nil {
		handlers.RespondBadRequest(w, msgMissingTotal)
		return
	}

	slot, err := h.service.UpdateCapacity(r.Context(), slotID, *req.Total, req.PerType)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("PUT /slots/{id}/capacity - %s: slot_id=%d", de.Code, slotID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("PUT /slots/{id}/capacity - Failed to update capacity: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /slots/{id}/capacity - Capacity updated: slot_id=%d, total=%d", slotID, *req.Total)
	handlers.RespondJSON(w, http.StatusOK, slot.ToView())
}
