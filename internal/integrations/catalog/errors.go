package catalog

import "errors"

var (
	// ErrExperienceNotFound возвращается, когда впечатление не найдено в каталоге
	ErrExperienceNotFound = errors.New("experience not found in catalog")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от каталога
	ErrInvalidResponse = errors.New("catalog client: invalid response")
)
