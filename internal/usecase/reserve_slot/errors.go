package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)

func errExperienceNotFound(experienceID int64) *domain.Error {
	return domain.NewError(domain.CodeExperienceInvalid, "Experience not found.", http.StatusNotFound,
		map[string]interface{}{"experience_id": experienceID})
}

func errOccurrenceNotFound(experienceID int64, tr domain.TimeRange) *domain.Error {
	return domain.NewError(domain.CodeOccurrenceNotFound, "The requested time is not offered by this experience.", http.StatusNotFound,
		map[string]interface{}{
			"experience_id":  experienceID,
			"start_datetime": tr.StartUTCString(),
			"end_datetime":   tr.EndUTCString(),
		})
}

func errLeadTime(slotID int64, leadTimeHours int) *domain.Error {
	return domain.NewError(domain.CodeLeadTimeViolation, "This slot is too close to its start time to be booked.", http.StatusUnprocessableEntity,
		map[string]interface{}{"slot_id": slotID, "lead_time_hours": leadTimeHours})
}

func errNotBookable(slotID int64, status domain.SlotStatus) *domain.Error {
	return domain.NewError(domain.CodeSlotNotBookable, "This slot is not open for booking.", http.StatusConflict,
		map[string]interface{}{"slot_id": slotID, "status": string(status)})
}

func errCapacityExceeded(slotID int64, remaining map[string]int, errs []string) *domain.Error {
	return domain.NewError(domain.CodeCapacityExceeded, "Not enough capacity for the requested tickets.", http.StatusConflict,
		map[string]interface{}{"slot_id": slotID, "remaining": remaining}).WithErrors(errs)
}
