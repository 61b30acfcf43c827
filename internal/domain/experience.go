package domain

import "time"

// RecurrenceFrequency is how often a recurrence rule repeats
type RecurrenceFrequency string

const (
	FrequencyDaily    RecurrenceFrequency = "daily"
	FrequencyWeekly   RecurrenceFrequency = "weekly"
	FrequencySpecific RecurrenceFrequency = "specific"
)

// RecurrenceRule is the stored schedule of an experience.
// Times are "HH:MM" wall-clock values in the site timezone; dates are "YYYY-MM-DD".
type RecurrenceRule struct {
	Frequency       RecurrenceFrequency `json:"frequency"`
	Weekdays        []string            `json:"days,omitempty"`
	Times           []string            `json:"times"`
	DurationMinutes int                 `json:"duration_minutes"`
	StartDate       string              `json:"start_date,omitempty"`
	EndDate         string              `json:"end_date,omitempty"`
	Dates           []string            `json:"specific_dates,omitempty"`
}

// IsEmpty returns true if the rule produces no occurrences
func (r RecurrenceRule) IsEmpty() bool {
	if len(r.Times) == 0 {
		return true
	}
	if r.Frequency == FrequencySpecific {
		return len(r.Dates) == 0
	}
	return r.Frequency != FrequencyDaily && r.Frequency != FrequencyWeekly
}

// Duration returns the occurrence length, falling back to the default duration
func (r RecurrenceRule) Duration() time.Duration {
	if r.DurationMinutes <= 0 {
		return DefaultDurationMinutes * time.Minute
	}
	return time.Duration(r.DurationMinutes) * time.Minute
}

// ExperienceAvailability is the availability configuration of an experience
type ExperienceAvailability struct {
	ExperienceID        int64          `json:"experience_id"`
	SlotCapacity        int            `json:"slot_capacity"`
	CapacityPerType     map[string]int `json:"capacity_per_type"`
	LeadTimeHours       int            `json:"lead_time_hours"`
	BufferBeforeMinutes int            `json:"buffer_before_minutes"`
	BufferAfterMinutes  int            `json:"buffer_after_minutes"`
	Recurrence          RecurrenceRule `json:"recurrence"`
}

// DefaultCapacity builds the capacity a lazily materialized slot starts with.
// Negative totals are clamped to zero.
func (a ExperienceAvailability) DefaultCapacity() (SlotCapacity, error) {
	total := a.SlotCapacity
	if total < 0 {
		total = 0
	}
	return NewSlotCapacity(total, a.CapacityPerType)
}

// LeadTime returns the minimum notice before a slot start
func (a ExperienceAvailability) LeadTime() time.Duration {
	if a.LeadTimeHours <= 0 {
		return 0
	}
	return time.Duration(a.LeadTimeHours) * time.Hour
}
