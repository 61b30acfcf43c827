package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func window(t *testing.T, loc *time.Location, from, to string) domain.TimeRange {
	t.Helper()
	tr, err := domain.TimeRangeFromISOStrings(from, to, loc)
	require.NoError(t, err)
	return tr
}

func TestExpander_WeeklyOctober(t *testing.T) {
	loc := rome(t)
	e := NewExpander(loc)
	rule := domain.RecurrenceRule{
		Frequency:       domain.FrequencyWeekly,
		Weekdays:        []string{"tuesday", "thu"},
		Times:           []string{"14:00", "10:00"},
		DurationMinutes: 90,
	}

	occurrences, err := e.Expand(rule, window(t, loc, "2024-10-01T00:00:00", "2024-10-31T23:59:59"))
	require.NoError(t, err)
	require.Len(t, occurrences, 20)

	for i, o := range occurrences {
		local := o.Start().In(loc)
		assert.Equal(t, time.October, local.Month())
		assert.Contains(t, []time.Weekday{time.Tuesday, time.Thursday}, local.Weekday())
		assert.Contains(t, []int{10, 14}, local.Hour())
		assert.Equal(t, 90, o.DurationMinutes())
		if i > 0 {
			assert.True(t, occurrences[i-1].Start().Before(o.Start()))
		}
	}
}

func TestExpander_DSTKeepsWallClock(t *testing.T) {
	loc := rome(t)
	e := NewExpander(loc)
	rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Times: []string{"10:00"}}

	occurrences, err := e.Expand(rule, window(t, loc, "2024-10-26", "2024-10-28T23:00:00"))
	require.NoError(t, err)
	require.Len(t, occurrences, 3)

	assert.Equal(t, "2024-10-26 08:00:00", occurrences[0].StartUTCString())
	assert.Equal(t, "2024-10-27 09:00:00", occurrences[1].StartUTCString())
	assert.Equal(t, "2024-10-28 09:00:00", occurrences[2].StartUTCString())
	assert.Equal(t, 60, occurrences[1].DurationMinutes())
}

func TestExpander_DateBoundsAndSpecific(t *testing.T) {
	loc := time.UTC
	e := NewExpander(loc)

	t.Run("bounded daily", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Frequency: domain.FrequencyDaily,
			Times:     []string{"09:00"},
			StartDate: "2025-01-03",
			EndDate:   "2025-01-05",
		}
		occurrences, err := e.Expand(rule, window(t, loc, "2025-01-01", "2025-01-10"))
		require.NoError(t, err)
		require.Len(t, occurrences, 3)
		assert.Equal(t, "2025-01-03 09:00:00", occurrences[0].StartUTCString())
		assert.Equal(t, "2025-01-05 09:00:00", occurrences[2].StartUTCString())
	})

	t.Run("specific dates", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Frequency: domain.FrequencySpecific,
			Times:     []string{"18:30"},
			Dates:     []string{"2025-02-14", "2025-03-01", "2024-12-31"},
		}
		occurrences, err := e.Expand(rule, window(t, loc, "2025-01-01", "2025-02-28"))
		require.NoError(t, err)
		require.Len(t, occurrences, 1)
		assert.Equal(t, "2025-02-14 18:30:00", occurrences[0].StartUTCString())
	})

	t.Run("window start excludes earlier times that day", func(t *testing.T) {
		rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Times: []string{"09:00", "15:00"}}
		occurrences, err := e.Expand(rule, window(t, loc, "2025-01-01T12:00:00Z", "2025-01-01T23:00:00Z"))
		require.NoError(t, err)
		require.Len(t, occurrences, 1)
		assert.Equal(t, "2025-01-01 15:00:00", occurrences[0].StartUTCString())
	})
}

func TestExpander_InvalidRules(t *testing.T) {
	e := NewExpander(time.UTC)
	w := window(t, time.UTC, "2025-01-01", "2025-01-31")

	tests := []struct {
		name string
		rule domain.RecurrenceRule
	}{
		{name: "bad time", rule: domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Times: []string{"25:99"}}},
		{name: "bad weekday", rule: domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, Weekdays: []string{"funday"}, Times: []string{"10:00"}}},
		{name: "bad specific date", rule: domain.RecurrenceRule{Frequency: domain.FrequencySpecific, Dates: []string{"tomorrow"}, Times: []string{"10:00"}}},
		{name: "bad bound", rule: domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Times: []string{"10:00"}, EndDate: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Expand(tt.rule, w)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}

	empty, err := e.Expand(domain.RecurrenceRule{Frequency: "monthly", Times: []string{"10:00"}}, w)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestExpander_WindowTooWide(t *testing.T) {
	e := NewExpander(time.UTC)
	rule := domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Times: []string{"10:00"}}
	_, err := e.Expand(rule, window(t, time.UTC, "2025-01-01", "2027-01-01"))
	assert.ErrorIs(t, err, ErrWindowTooWide)
}

func TestExpander_Produces(t *testing.T) {
	loc := rome(t)
	e := NewExpander(loc)
	rule := domain.RecurrenceRule{
		Frequency:       domain.FrequencyWeekly,
		Weekdays:        []string{"1"},
		Times:           []string{"10:00"},
		DurationMinutes: 60,
	}

	ok, err := e.Produces(rule, window(t, loc, "2025-01-06T10:00:00", "2025-01-06T11:00:00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Produces(rule, window(t, loc, "2025-01-06T10:00:00", "2025-01-06T12:00:00"))
	require.NoError(t, err)
	assert.False(t, ok, "duration must match")

	ok, err = e.Produces(rule, window(t, loc, "2025-01-07T10:00:00", "2025-01-07T11:00:00"))
	require.NoError(t, err)
	assert.False(t, ok, "tuesday is not in the rule")
}

func TestParseWeekday(t *testing.T) {
	for raw, want := range map[string]time.Weekday{
		"Monday": time.Monday, "sun": time.Sunday, "7": time.Sunday, "0": time.Sunday, " 3 ": time.Wednesday,
	} {
		got, err := ParseWeekday(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseWeekday("8")
	assert.ErrorIs(t, err, ErrInvalidRule)
}
