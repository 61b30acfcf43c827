package release_hold

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_hold: invalid input data")

	// ErrHoldNotFound возвращается, когда холд с таким токеном не найден
	ErrHoldNotFound = errors.New("release_hold: hold not found")

	// ErrHoldNotActive возвращается, когда резерв уже подтвержден или отменен
	ErrHoldNotActive = errors.New("release_hold: hold is not active")

	// ErrAccessDenied возвращается, когда холд принадлежит другому покупателю
	ErrAccessDenied = errors.New("release_hold: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_hold: internal error")
)
