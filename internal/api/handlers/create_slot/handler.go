package create_slot

import (
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const (
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

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /slots - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), serviceReq)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			h.logger.Warn("POST /slots - %s: experience_id=%d", de.Code, req.ExperienceID)
			handlers.RespondDomainError(w, de)
			return
		}
		h.logger.Error("POST /slots - Failed to create slot: experience_id=%d, error=%v", req.ExperienceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /slots - Slot created: slot_id=%d, experience_id=%d", slot.ID, slot.ExperienceID)
	handlers.RespondJSON(w, http.StatusCreated, slot.ToView())
}
