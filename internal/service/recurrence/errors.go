package recurrence

import "errors"

var (
	// ErrInvalidRule возвращается, когда правило повторения нельзя разобрать
	ErrInvalidRule = errors.New("invalid recurrence rule")

	// ErrWindowTooWide возвращается, когда окно раскрытия шире допустимого
	ErrWindowTooWide = errors.New("recurrence window too wide")
)
