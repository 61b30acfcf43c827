package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeRange is an immutable start/end instant pair. Instants are kept in the location they
// were built with; storage always goes through the UTC projections.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange builds a range; end must not precede start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, fmt.Errorf("%w: end %s precedes start %s",
			ErrInvalidArgument, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeRange{start: start, end: end}, nil
}

// TimeRangeFromUTCStrings parses two "Y-m-d H:i:s" strings as UTC.
func TimeRangeFromUTCStrings(startUTC, endUTC string) (TimeRange, error) {
	start, err := time.ParseInLocation(UTCLayout, strings.TrimSpace(startUTC), time.UTC)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: invalid UTC start %q", ErrInvalidArgument, startUTC)
	}
	end, err := time.ParseInLocation(UTCLayout, strings.TrimSpace(endUTC), time.UTC)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: invalid UTC end %q", ErrInvalidArgument, endUTC)
	}
	return NewTimeRange(start, end)
}

// TimeRangeFromISOStrings parses ISO-8601 strings. Values without an offset are read in loc
// (the site timezone); when strict ISO parsing fails a permissive parse is attempted.
func TimeRangeFromISOStrings(startISO, endISO string, loc *time.Location) (TimeRange, error) {
	start, err := ParseFlexible(startISO, loc)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseFlexible(endISO, loc)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(start, end)
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	DateFormat,
	"2006/01/02",
}

// ParseFlexible parses an instant from ISO-8601 with offset, a local date/time layout
// (interpreted in loc), or unix seconds.
func ParseFlexible(value string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty datetime", ErrInvalidArgument)
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).In(loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: unparsable datetime %q", ErrInvalidArgument, value)
}

// IsDateOnly reports whether the value is a bare YYYY-MM-DD date.
func IsDateOnly(value string) bool {
	_, err := time.Parse(DateFormat, strings.TrimSpace(value))
	return err == nil
}

func (r TimeRange) Start() time.Time { return r.start }
func (r TimeRange) End() time.Time   { return r.end }

// StartUTCString returns the start as "Y-m-d H:i:s" in UTC.
func (r TimeRange) StartUTCString() string { return r.start.UTC().Format(UTCLayout) }

// EndUTCString returns the end as "Y-m-d H:i:s" in UTC.
func (r TimeRange) EndUTCString() string { return r.end.UTC().Format(UTCLayout) }

func (r TimeRange) StartISO() string { return r.start.Format(time.RFC3339) }
func (r TimeRange) EndISO() string   { return r.end.Format(time.RFC3339) }

func (r TimeRange) Duration() time.Duration { return r.end.Sub(r.start) }

func (r TimeRange) DurationSeconds() int64 { return int64(r.Duration() / time.Second) }

func (r TimeRange) DurationMinutes() int { return int(r.Duration() / time.Minute) }

// In returns the same instants expressed in loc.
func (r TimeRange) In(loc *time.Location) TimeRange {
	return TimeRange{start: r.start.In(loc), end: r.end.In(loc)}
}

// UTC returns the same instants expressed in UTC.
func (r TimeRange) UTC() TimeRange { return r.In(time.UTC) }

// Overlaps reports whether the two ranges intersect; touching ranges do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

// Contains is inclusive on both bounds.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Expand widens the range by before/after.
func (r TimeRange) Expand(before, after time.Duration) TimeRange {
	return TimeRange{start: r.start.Add(-before), end: r.end.Add(after)}
}

// Equal compares instants, ignoring location.
func (r TimeRange) Equal(other TimeRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// Key is the UTC natural key used to match virtual occurrences against persisted slots.
func (r TimeRange) Key() string {
	return r.StartUTCString() + "|" + r.EndUTCString()
}

func (r TimeRange) String() string {
	return r.StartISO() + "/" + r.EndISO()
}
