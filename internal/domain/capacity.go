package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SlotCapacity is the declared capacity of a slot: a total and optional per-ticket-type
// sub-capacities. Zero entries never survive normalization.
type SlotCapacity struct {
	total   int
	perType map[string]int
}

// NewSlotCapacity builds a capacity; total must be non-negative.
func NewSlotCapacity(total int, perType map[string]int) (SlotCapacity, error) {
	if total < 0 {
		return SlotCapacity{}, fmt.Errorf("%w: capacity total %d is negative", ErrInvalidArgument, total)
	}

	normalized := make(map[string]int, len(perType))
	for key, qty := range perType {
		k := SanitizeKey(key)
		if k == "" || qty <= 0 {
			continue
		}
		normalized[k] += qty
	}

	return SlotCapacity{total: total, perType: normalized}, nil
}

// NormalizePerType converts a decoded JSON map into per-type quantities, dropping
// non-numeric values.
func NormalizePerType(raw map[string]interface{}) map[string]int {
	out := make(map[string]int, len(raw))
	for key, value := range raw {
		qty, ok := toInt(value)
		if !ok {
			continue
		}
		out[key] = qty
	}
	return out
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// SanitizeKey lower-cases a ticket type key and keeps only [a-z0-9_-].
func SanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
		if b.Len() >= MaxTicketTypeKeyChars {
			break
		}
	}
	return b.String()
}

func (c SlotCapacity) Total() int { return c.total }

// PerType returns a copy of the per-type sub-capacities.
func (c SlotCapacity) PerType() map[string]int {
	out := make(map[string]int, len(c.perType))
	for k, v := range c.perType {
		out[k] = v
	}
	return out
}

// ForType returns the declared sub-capacity, 0 for unknown types.
func (c SlotCapacity) ForType(ticketType string) int {
	return c.perType[SanitizeKey(ticketType)]
}

// HasType reports whether a sub-capacity is declared for the type.
func (c SlotCapacity) HasType(ticketType string) bool {
	_, ok := c.perType[SanitizeKey(ticketType)]
	return ok
}

// Types returns declared ticket types in sorted order.
func (c SlotCapacity) Types() []string {
	types := make([]string, 0, len(c.perType))
	for k := range c.perType {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// PerTypeSum saturates at math.MaxInt instead of wrapping.
func (c SlotCapacity) PerTypeSum() int {
	sum := 0
	for _, v := range c.perType {
		if v > math.MaxInt-sum {
			return math.MaxInt
		}
		sum += v
	}
	return sum
}

// IsValid reports whether per-type allocations fit inside the total.
func (c SlotCapacity) IsValid() bool {
	sum := 0
	for _, v := range c.perType {
		if v > c.total {
			return false
		}
		sum += v
		if sum > c.total {
			return false
		}
	}
	return true
}

// Remaining is the capacity not assigned to any ticket type, floored at 0.
func (c SlotCapacity) Remaining() int {
	r := c.total - c.PerTypeSum()
	if r < 0 {
		return 0
	}
	return r
}

// CapacitySnapshot is the live count of seats held or booked against a slot.
type CapacitySnapshot struct {
	Total   int            `json:"total"`
	PerType map[string]int `json:"per_type"`
}

// EmptySnapshot is the all-zero snapshot.
func EmptySnapshot() CapacitySnapshot {
	return CapacitySnapshot{Total: 0, PerType: map[string]int{}}
}

// ForType returns seats held for a ticket type.
func (s CapacitySnapshot) ForType(ticketType string) int {
	return s.PerType[SanitizeKey(ticketType)]
}
