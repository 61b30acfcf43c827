package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument is returned when a value object or entity is built from invalid input.
	ErrInvalidArgument = errors.New("domain: invalid argument")

	// ErrCorruptRow is returned when a persisted slot row cannot be decoded.
	ErrCorruptRow = errors.New("domain: corrupt slot row")
)

// Domain error codes rendered to REST and admin callers.
const (
	CodeSlotNotFound       = "slot_not_found"
	CodeExperienceInvalid  = "invalid_experience"
	CodeSlotCreateFailed   = "slot_create_failed"
	CodeSlotUpdateFailed   = "slot_update_failed"
	CodeCapacityInvalid    = "capacity_invalid"
	CodeCapacityExceeded   = "capacity_exceeded"
	CodeInvalidTransition  = "invalid_status_transition"
	CodeSlotNotBookable    = "slot_not_bookable"
	CodeLeadTimeViolation  = "lead_time_violation"
	CodeBufferConflict     = "buffer_conflict"
	CodeInvalidTimeRange   = "invalid_time_range"
	CodeOccurrenceNotFound = "occurrence_not_found"
)

// Error is a structured domain failure: a code, a user-facing message, an HTTP status hint,
// contextual data and, when several constraints failed at once, the full list of messages.
type Error struct {
	Code    string
	Message string
	Status  int
	Data    map[string]interface{}
	Errors  []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches domain errors by code so callers can compare against the NewXxx helpers.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError builds a domain error.
func NewError(code, message string, status int, data map[string]interface{}) *Error {
	return &Error{Code: code, Message: message, Status: status, Data: data}
}

// WithErrors attaches the full list of violated constraints.
func (e *Error) WithErrors(errs []string) *Error {
	e.Errors = append([]string(nil), errs...)
	return e
}

// ErrSlotNotFound builds the not-found result for a slot id.
func ErrSlotNotFound(slotID int64) *Error {
	return NewError(CodeSlotNotFound, "slot not found", http.StatusNotFound,
		map[string]interface{}{"slot_id": slotID})
}

// ErrCapacityInvalid builds the validation failure for an inconsistent capacity.
func ErrCapacityInvalid(message string, data map[string]interface{}) *Error {
	return NewError(CodeCapacityInvalid, message, http.StatusBadRequest, data)
}

// AsError extracts a domain error from an error chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
