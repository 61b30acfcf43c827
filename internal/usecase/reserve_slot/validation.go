package reserve_slot

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// validateRequest проверяет запрос и возвращает нормализованные билеты
func validateRequest(req *Request) (map[string]int, error) {
	if req.ExperienceID <= 0 {
		return nil, fmt.Errorf("%w: experience id must be positive", ErrInvalidInput)
	}
	if req.CustomerID < 0 {
		return nil, fmt.Errorf("%w: customer id must not be negative", ErrInvalidInput)
	}
	if req.SlotID < 0 {
		return nil, fmt.Errorf("%w: slot id must not be negative", ErrInvalidInput)
	}
	if req.SlotID == 0 && (strings.TrimSpace(req.Start) == "" || strings.TrimSpace(req.End) == "") {
		return nil, fmt.Errorf("%w: either slot id or start and end are required", ErrInvalidInput)
	}

	tickets := make(map[string]int, len(req.Tickets))
	total := 0
	for key, qty := range req.Tickets {
		if qty < 0 {
			return nil, fmt.Errorf("%w: negative quantity for ticket type %q", ErrInvalidInput, key)
		}
		// Каждое количество ограничено до суммирования, сумма не переполняется
		if qty > domain.MaxSlotCapacity {
			return nil, fmt.Errorf("%w: too many tickets of type %q", ErrInvalidInput, key)
		}
		k := domain.SanitizeKey(key)
		if k == "" || qty == 0 {
			continue
		}
		tickets[k] += qty
		total += qty
		if total > domain.MaxSlotCapacity {
			return nil, fmt.Errorf("%w: too many tickets requested", ErrInvalidInput)
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: at least one ticket is required", ErrInvalidInput)
	}

	return tickets, nil
}
