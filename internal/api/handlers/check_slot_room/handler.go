package check_slot_room

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/slots/{slotId}/room
// Ответ 200 и в случае нехватки мест: решение принимает вызывающий (погашение сертификата)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("POST /slots/{id}/room - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req CheckRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/{id}/room - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.HasRoom(r.Context(), slotID, req.Tickets)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("POST /slots/{id}/room - %s: slot_id=%d", de.Code, slotID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("POST /slots/{id}/room - Failed to check room: slot_id=%d, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
