package get_slot_snapshot

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

// Handle GET /api/v1/slots/{slotId}/snapshot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("GET /slots/{id}/snapshot - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	slot, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		h.respondError(w, slotID, err)
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), slotID)
	if err != nil {
		h.respondError(w, slotID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, newSnapshotResponse(slot, snapshot))
}

func (h *Handler) respondError(w http.ResponseWriter, slotID int64, err error) {
	if de, ok := domain.AsError(err); ok {
		h.logger.Warn("GET /slots/{id}/snapshot - %s: slot_id=%d", de.Code, slotID)
		handlers.RespondDomainError(w, de)
		return
	}
	h.logger.Error("GET /slots/{id}/snapshot - Failed to get snapshot: slot_id=%d, error=%v", slotID, err)
	handlers.RespondInternalError(w)
}
