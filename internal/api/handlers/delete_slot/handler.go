package delete_slot

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const msgInvalidSlotID = "некорректный ID слота"

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

// Handle DELETE /api/v1/slots/{slotId}
// Слот с живыми резервами не удаляется (409)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("DELETE /slots/{id} - %s: slot_id=%d", de.Code, slotID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("DELETE /slots/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /slots/{id} - Slot deleted: slot_id=%d", slotID)
	w.WriteHeader(http.StatusNoContent)
}
