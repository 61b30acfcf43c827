package domain_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

func TestNewSlotCapacity(t *testing.T) {
	t.Run("negative total fails", func(t *testing.T) {
		_, err := domain.NewSlotCapacity(-1, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("per type is normalized", func(t *testing.T) {
		c, err := domain.NewSlotCapacity(10, map[string]int{
			"Adult":     6,
			"child!":    3,
			"senior":    0,
			"infant":    -2,
			"***":       5,
			"Student_1": 1,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"adult": 6, "child": 3, "student_1": 1}, c.PerType())
		for _, v := range c.PerType() {
			assert.Positive(t, v)
		}
	})

	t.Run("unknown type is zero", func(t *testing.T) {
		c, err := domain.NewSlotCapacity(5, map[string]int{"adult": 5})
		require.NoError(t, err)
		assert.Equal(t, 0, c.ForType("child"))
		assert.Equal(t, 5, c.ForType("ADULT"))
		assert.False(t, c.HasType("child"))
	})
}

func TestSlotCapacityValidityAndRemaining(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		perType       map[string]int
		wantValid     bool
		wantRemaining int
	}{
		{name: "no sub capacities", total: 10, wantValid: true, wantRemaining: 10},
		{name: "partial allocation", total: 10, perType: map[string]int{"adult": 6}, wantValid: true, wantRemaining: 4},
		{name: "exact allocation", total: 10, perType: map[string]int{"adult": 6, "child": 4}, wantValid: true, wantRemaining: 0},
		{name: "over allocation floors at zero", total: 10, perType: map[string]int{"adult": 8, "child": 4}, wantValid: false, wantRemaining: 0},
		{name: "zero total", total: 0, wantValid: true, wantRemaining: 0},
		{name: "huge type does not wrap the sum", total: 10, perType: map[string]int{"adult": math.MaxInt, "child": 2}, wantValid: false, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := domain.NewSlotCapacity(tt.total, tt.perType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, c.IsValid())
			assert.Equal(t, tt.wantRemaining, c.Remaining())
			assert.GreaterOrEqual(t, c.Remaining(), 0)
		})
	}
}

func TestSlotCapacity_PerTypeSumSaturates(t *testing.T) {
	c, err := domain.NewSlotCapacity(10, map[string]int{"adult": math.MaxInt, "child": 2})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, c.PerTypeSum())
}

func TestNormalizePerType(t *testing.T) {
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"adult":"4","child":2.0,"senior":"many","vip":null,"group":[1]}`), &raw))

	got := domain.NormalizePerType(raw)
	assert.Equal(t, map[string]int{"adult": 4, "child": 2}, got)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "adult-plus", domain.SanitizeKey(" Adult-Plus "))
	assert.Equal(t, "", domain.SanitizeKey("№%"))
	assert.Len(t, domain.SanitizeKey(strings.Repeat("b", 200)), domain.MaxTicketTypeKeyChars)
}
