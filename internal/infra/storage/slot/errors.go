package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDuplicateSlot возвращается при нарушении уникальности (experience_id, start_datetime, end_datetime)
	ErrDuplicateSlot = errors.New("slot.repository: slot already exists for this window")

	// ErrInvalidSlot возвращается, когда данные слота нельзя сохранить
	ErrInvalidSlot = errors.New("slot.repository: invalid slot data")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
