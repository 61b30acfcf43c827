package get_slot

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

// Handle GET /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("GET /slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	slot, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("GET /slots/{id} - %s: slot_id=%d", de.Code, slotID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("GET /slots/{id} - Failed to get slot: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, slot.ToView())
}
