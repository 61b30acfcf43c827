package capacity

import "errors"

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("capacity: internal error")

// Причины отказа для метрик
const (
	rejectTotal   = "total"
	rejectPerType = "per_type"
)
