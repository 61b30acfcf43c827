package availability

import "errors"

var (
	// ErrInvalidWindow возвращается строгими проверками при некорректном временном окне
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrInvalidBuffer возвращается строгими проверками при некорректном буфере
	ErrInvalidBuffer = errors.New("invalid buffer")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
