package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/pkg/ptr"
)

// SlotStatus is the booking status of a slot
type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "open"
	SlotStatusClosed    SlotStatus = "closed"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// NormalizeSlotStatus coerces an arbitrary value into a known status; unknown values become open.
func NormalizeSlotStatus(raw string) SlotStatus {
	switch s := SlotStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case SlotStatusOpen, SlotStatusClosed, SlotStatusCancelled:
		return s
	default:
		return SlotStatusOpen
	}
}

// IsValid returns true if the status is one of the known values
func (s SlotStatus) IsValid() bool {
	return s == SlotStatusOpen || s == SlotStatusClosed || s == SlotStatusCancelled
}

// DefaultDisplayStatuses are the statuses shown by availability queries when none are requested.
func DefaultDisplayStatuses() []SlotStatus {
	return []SlotStatus{SlotStatusOpen, SlotStatusClosed}
}

// Slot is a concrete bookable window of an experience. It is a plain data holder:
// status transitions are enforced by the slot manager, not here.
type Slot struct {
	ID           int64
	ExperienceID int64
	TimeRange    TimeRange
	Capacity     SlotCapacity
	Status       SlotStatus
	ResourceLock map[string]interface{}
	PriceRules   map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SlotParams are the inputs of NewSlot
type SlotParams struct {
	ID           int64
	ExperienceID int64
	TimeRange    TimeRange
	Capacity     SlotCapacity
	Status       string
	ResourceLock map[string]interface{}
	PriceRules   map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSlot builds a persisted slot; both ids must be positive.
func NewSlot(p SlotParams) (*Slot, error) {
	if p.ID <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive, got %d", ErrInvalidArgument, p.ID)
	}
	if p.ExperienceID <= 0 {
		return nil, fmt.Errorf("%w: experience id must be positive, got %d", ErrInvalidArgument, p.ExperienceID)
	}

	return &Slot{
		ID:           p.ID,
		ExperienceID: p.ExperienceID,
		TimeRange:    p.TimeRange,
		Capacity:     p.Capacity,
		Status:       NormalizeSlotStatus(p.Status),
		ResourceLock: copyMeta(p.ResourceLock),
		PriceRules:   copyMeta(p.PriceRules),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

// SlotRow is the raw storage shape of a slot. Datetime columns are UTC "Y-m-d H:i:s" strings
// and map columns are JSON blobs.
type SlotRow struct {
	ID              int64
	ExperienceID    int64
	StartDatetime   string
	EndDatetime     string
	CapacityTotal   int
	CapacityPerType []byte
	ResourceLock    []byte
	Status          string
	PriceRules      []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SlotFromRow rebuilds a slot from storage. Any undecodable column yields ErrCorruptRow.
func SlotFromRow(row SlotRow) (*Slot, error) {
	tr, err := TimeRangeFromUTCStrings(row.StartDatetime, row.EndDatetime)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrCorruptRow, row.ID, err)
	}

	rawPerType, err := decodeMeta(row.CapacityPerType)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d capacity_per_type: %v", ErrCorruptRow, row.ID, err)
	}
	resourceLock, err := decodeMeta(row.ResourceLock)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d resource_lock: %v", ErrCorruptRow, row.ID, err)
	}
	priceRules, err := decodeMeta(row.PriceRules)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d price_rules: %v", ErrCorruptRow, row.ID, err)
	}

	total := row.CapacityTotal
	if total < 0 {
		total = 0
	}
	capacity, err := NewSlotCapacity(total, NormalizePerType(rawPerType))
	if err != nil {
		return nil, fmt.Errorf("%w: slot %d: %v", ErrCorruptRow, row.ID, err)
	}

	slot, err := NewSlot(SlotParams{
		ID:           row.ID,
		ExperienceID: row.ExperienceID,
		TimeRange:    tr,
		Capacity:     capacity,
		Status:       row.Status,
		ResourceLock: resourceLock,
		PriceRules:   priceRules,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRow, err)
	}

	return slot, nil
}

// SlotView is the projection every slot-shaped payload uses, persisted or virtual
type SlotView struct {
	ID              int64                  `json:"id"`
	ExperienceID    int64                  `json:"experience_id"`
	StartDatetime   string                 `json:"start_datetime"`
	EndDatetime     string                 `json:"end_datetime"`
	CapacityTotal   int                    `json:"capacity_total"`
	CapacityPerType map[string]int         `json:"capacity_per_type"`
	Status          SlotStatus             `json:"status"`
	ResourceLock    map[string]interface{} `json:"resource_lock"`
	PriceRules      map[string]interface{} `json:"price_rules"`
	Duration        *int                   `json:"duration,omitempty"`
	Virtual         bool                   `json:"virtual,omitempty"`
}

// ToView returns the external projection of the slot
func (s *Slot) ToView() SlotView {
	return SlotView{
		ID:              s.ID,
		ExperienceID:    s.ExperienceID,
		StartDatetime:   s.TimeRange.StartUTCString(),
		EndDatetime:     s.TimeRange.EndUTCString(),
		CapacityTotal:   s.Capacity.Total(),
		CapacityPerType: s.Capacity.PerType(),
		Status:          s.Status,
		ResourceLock:    copyMeta(s.ResourceLock),
		PriceRules:      copyMeta(s.PriceRules),
	}
}

// VirtualSlotView projects a recurrence occurrence that has no persisted row yet.
func VirtualSlotView(experienceID int64, tr TimeRange, capacity SlotCapacity) SlotView {
	return SlotView{
		ExperienceID:    experienceID,
		StartDatetime:   tr.StartUTCString(),
		EndDatetime:     tr.EndUTCString(),
		CapacityTotal:   capacity.Total(),
		CapacityPerType: capacity.PerType(),
		Status:          SlotStatusOpen,
		ResourceLock:    map[string]interface{}{},
		PriceRules:      map[string]interface{}{},
		Virtual:         true,
	}
}

// WithDuration sets the display duration in minutes
func (v SlotView) WithDuration(minutes int) SlotView {
	v.Duration = ptr.Ptr(minutes)
	return v
}

// TimeRange parses the view's UTC window back into a TimeRange
func (v SlotView) TimeRange() (TimeRange, error) {
	return TimeRangeFromUTCStrings(v.StartDatetime, v.EndDatetime)
}

// WithTimeRange returns a copy of the slot moved to tr
func (s *Slot) WithTimeRange(tr TimeRange) *Slot {
	c := s.clone()
	c.TimeRange = tr
	return c
}

// WithCapacity returns a copy of the slot with a new capacity
func (s *Slot) WithCapacity(capacity SlotCapacity) *Slot {
	c := s.clone()
	c.Capacity = capacity
	return c
}

// WithStatus returns a copy of the slot with the normalized status
func (s *Slot) WithStatus(status SlotStatus) *Slot {
	c := s.clone()
	c.Status = NormalizeSlotStatus(string(status))
	return c
}

// IsBookable returns true if new reservations may be attached to the slot
func (s *Slot) IsBookable() bool {
	return s.Status == SlotStatusOpen
}

func (s *Slot) clone() *Slot {
	c := *s
	c.ResourceLock = copyMeta(s.ResourceLock)
	c.PriceRules = copyMeta(s.PriceRules)
	return &c
}

// EncodeMeta serializes a metadata map for storage; nil encodes as an empty object.
func EncodeMeta(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// EncodePerType serializes per-type capacities for storage.
func EncodePerType(m map[string]int) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func decodeMeta(raw []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		return map[string]interface{}{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

func copyMeta(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
