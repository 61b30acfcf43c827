package slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("slots: internal error")

// Источник материализации слота для метрик
const (
	sourceOccurrence = "occurrence"
	sourceAdmin      = "admin"
)

func errInvalidExperience(experienceID int64, status int) *domain.Error {
	return domain.NewError(domain.CodeExperienceInvalid, "Experience is not available for booking.", status,
		map[string]interface{}{"experience_id": experienceID})
}

func errSlotCreateFailed(message string, status int, experienceID int64, tr domain.TimeRange) *domain.Error {
	return domain.NewError(domain.CodeSlotCreateFailed, message, status,
		map[string]interface{}{
			"experience_id":  experienceID,
			"start_datetime": tr.StartUTCString(),
			"end_datetime":   tr.EndUTCString(),
		})
}

func errSlotUpdateFailed(message string, status int, slotID int64) *domain.Error {
	return domain.NewError(domain.CodeSlotUpdateFailed, message, status,
		map[string]interface{}{"slot_id": slotID})
}

func errInvalidTransition(slotID int64, from domain.SlotStatus, to string) *domain.Error {
	return domain.NewError(domain.CodeInvalidTransition, "Slot status cannot be changed this way.", http.StatusConflict,
		map[string]interface{}{"slot_id": slotID, "from": string(from), "to": to})
}

func errBufferConflict(experienceID int64, tr domain.TimeRange) *domain.Error {
	return domain.NewError(domain.CodeBufferConflict, "The slot overlaps another slot including buffer time.", http.StatusConflict,
		map[string]interface{}{
			"experience_id":  experienceID,
			"start_datetime": tr.StartUTCString(),
			"end_datetime":   tr.EndUTCString(),
		})
}

func errInvalidTimeRange(message string) *domain.Error {
	return domain.NewError(domain.CodeInvalidTimeRange, message, http.StatusBadRequest, nil)
}
