package move_slot

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/create_slot"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindow      = "некорректное окно слота: ожидается start_datetime <= end_datetime"
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

// Handle PATCH /api/v1/slots/{slotId}/time
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/time - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req MoveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id}/time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	tr, err := create_slot.ParseWindow(req.Start, req.End)
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/time - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	slot, err := h.service.MoveSlot(r.Context(), slotID, tr)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("PATCH /slots/{id}/time - %s: slot_id=%d", de.Code, slotID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("PATCH /slots/{id}/time - Failed to move slot: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /slots/{id}/time - Slot moved: slot_id=%d, window=%s", slotID, tr.String())
	handlers.RespondJSON(w, http.StatusOK, slot.ToView())
}
