package get_slots_in_range

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers"
)

const msgInvalidExperienceID = "некорректный ID впечатления"

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

// Handle GET /api/v1/slots?from=&to=&experienceId=&status=
// status повторяется или перечисляется через запятую; окно разбирается мягко
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var experienceID int64
	if raw := query.Get("experienceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			h.logger.Warn("GET /slots - Invalid experience ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidExperienceID)
			return
		}
		experienceID = id
	}

	var statuses []string
	for _, raw := range query["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	views, err := h.service.GetSlotsInRangeByStrings(r.Context(), query.Get("from"), query.Get("to"), experienceID, statuses)
	if err != nil {
		h.logger.Error("GET /slots - Failed to get slots: experience_id=%d, error=%v", experienceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Slots retrieved: experience_id=%d, count=%d", experienceID, len(views))
	handlers.RespondJSON(w, http.StatusOK, views)
}
