package change_slot_status

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingStatus      = "поле status обязательно"
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

// Handle PATCH /api/v1/slots/{slotId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/status - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		handlers.RespondBadRequest(w, msgMissingStatus)
		return
	}

	slot, err := h.service.ChangeStatus(r.Context(), slotID, req.Status)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("PATCH /slots/{id}/status - %s: slot_id=%d, status=%q", de.Code, slotID, req.Status)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("PATCH /slots/{id}/status - Failed to change status: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /slots/{id}/status - Status changed: slot_id=%d, status=%s", slotID, slot.Status)
	handlers.RespondJSON(w, http.StatusOK, slot.ToView())
}
