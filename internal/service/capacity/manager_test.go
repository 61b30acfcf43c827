package capacity

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/metrics"
)

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) SnapshotBySlot(ctx context.Context, slotID int64, now time.Time) (domain.CapacitySnapshot, error) {
	args := m.Called(ctx, slotID, now)
	return args.Get(0).(domain.CapacitySnapshot), args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func mustCapacity(t *testing.T, total int, perType map[string]int) domain.SlotCapacity {
	t.Helper()
	c, err := domain.NewSlotCapacity(total, perType)
	require.NoError(t, err)
	return c
}

func newManager() (*Manager, *mockAggregator) {
	agg := new(mockAggregator)
	return NewManager(agg, metrics.Nop{}, logger.Nop{}), agg
}

func TestManager_CheckCapacity(t *testing.T) {
	m, _ := newManager()

	tests := []struct {
		name          string
		capacity      domain.SlotCapacity
		requested     map[string]int
		wantAvailable bool
		wantErrors    int
		wantRemaining map[string]int
	}{
		{
			name:          "fits total without sub capacities",
			capacity:      mustCapacity(t, 5, nil),
			requested:     map[string]int{"adult": 5},
			wantAvailable: true,
			wantRemaining: map[string]int{"adult": 0},
		},
		{
			name:          "exceeds total",
			capacity:      mustCapacity(t, 5, nil),
			requested:     map[string]int{"adult": 4, "child": 2},
			wantAvailable: false,
			wantErrors:    1,
			wantRemaining: map[string]int{"adult": 0, "child": 0},
		},
		{
			name:          "exceeds one type only",
			capacity:      mustCapacity(t, 10, map[string]int{"adult": 8, "child": 2}),
			requested:     map[string]int{"adult": 3, "child": 3},
			wantAvailable: false,
			wantErrors:    1,
			wantRemaining: map[string]int{"adult": 5, "child": 0},
		},
		{
			name:          "both axes fail and all errors are collected",
			capacity:      mustCapacity(t, 4, map[string]int{"adult": 2, "child": 2}),
			requested:     map[string]int{"adult": 3, "child": 3},
			wantAvailable: false,
			wantErrors:    3,
			wantRemaining: map[string]int{"adult": 0, "child": 0},
		},
		{
			name:          "non positive and unsanitary entries ignored",
			capacity:      mustCapacity(t, 2, map[string]int{"adult": 2}),
			requested:     map[string]int{"ADULT": 2, "child": 0, "senior": -3, "!!": 4},
			wantAvailable: true,
			wantRemaining: map[string]int{"adult": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.CheckCapacity(tt.capacity, tt.requested)
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Len(t, got.Errors, tt.wantErrors)
			assert.Equal(t, tt.wantRemaining, got.Remaining)
		})
	}
}

func TestManager_CheckCapacity_Symmetry(t *testing.T) {
	m, _ := newManager()
	capacity := mustCapacity(t, 10, map[string]int{"adult": 6, "child": 4})

	for adult := 0; adult <= 6; adult++ {
		for child := 0; child <= 4; child++ {
			got := m.CheckCapacity(capacity, map[string]int{"adult": adult, "child": child})
			assert.True(t, got.Available, "adult=%d child=%d", adult, child)
			assert.Empty(t, got.Errors)
		}
	}
}

func TestManager_CheckCapacityWithSnapshot(t *testing.T) {
	m, _ := newManager()

	t.Run("full slot rejects one more seat", func(t *testing.T) {
		capacity := mustCapacity(t, 5, nil)
		assert.True(t, m.CheckCapacity(capacity, map[string]int{"adult": 5}).Available)

		got := m.CheckCapacityWithSnapshot(capacity,
			domain.CapacitySnapshot{Total: 5, PerType: map[string]int{"adult": 5}},
			map[string]int{"adult": 1})
		assert.False(t, got.Available)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0], "Requested 1 tickets but only 0 available")
	})

	t.Run("exhausted type is still checked", func(t *testing.T) {
		capacity := mustCapacity(t, 10, map[string]int{"child": 2})
		got := m.CheckCapacityWithSnapshot(capacity,
			domain.CapacitySnapshot{Total: 2, PerType: map[string]int{"child": 2}},
			map[string]int{"child": 1})
		assert.False(t, got.Available)
		assert.Equal(t, 0, got.Remaining["child"])
	})

	t.Run("remaining seats accepted", func(t *testing.T) {
		capacity := mustCapacity(t, 10, map[string]int{"adult": 8})
		got := m.CheckCapacityWithSnapshot(capacity,
			domain.CapacitySnapshot{Total: 7, PerType: map[string]int{"adult": 5, "child": 2}},
			map[string]int{"adult": 3})
		assert.True(t, got.Available)
		assert.Equal(t, 0, got.Remaining["adult"])
	})

	t.Run("huge quantity does not wrap the total", func(t *testing.T) {
		capacity := mustCapacity(t, 5, nil)
		got := m.CheckCapacityWithSnapshot(capacity, domain.EmptySnapshot(),
			map[string]int{"adult": math.MaxInt, "child": 2})
		assert.False(t, got.Available)
		assert.NotEmpty(t, got.Errors)
	})

	t.Run("overbooked snapshot floors at zero", func(t *testing.T) {
		capacity := mustCapacity(t, 3, nil)
		got := m.CheckCapacityWithSnapshot(capacity, domain.CapacitySnapshot{Total: 9}, map[string]int{"adult": 1})
		assert.False(t, got.Available)
		assert.Contains(t, got.Errors[0], "only 0 available")
	})
}

func TestManager_UpdateCapacity(t *testing.T) {
	m, _ := newManager()

	t.Run("over allocated per type", func(t *testing.T) {
		_, err := m.UpdateCapacity(10, map[string]int{"adult": 8, "child": 4})
		require.Error(t, err)
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, domain.CodeCapacityInvalid, de.Code)
		assert.Equal(t, http.StatusBadRequest, de.Status)
		assert.Equal(t, 12, de.Data["per_type_sum"])
	})

	t.Run("huge per type value rejected", func(t *testing.T) {
		_, err := m.UpdateCapacity(10, map[string]int{"adult": math.MaxInt, "child": 2})
		require.Error(t, err)
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, domain.CodeCapacityInvalid, de.Code)
		assert.Equal(t, "adult", de.Data["type"])
	})

	t.Run("negative total", func(t *testing.T) {
		_, err := m.UpdateCapacity(-1, nil)
		assert.ErrorIs(t, err, domain.ErrCapacityInvalid("", nil))
	})

	t.Run("above limit", func(t *testing.T) {
		_, err := m.UpdateCapacity(domain.MaxSlotCapacity+1, nil)
		assert.ErrorIs(t, err, domain.ErrCapacityInvalid("", nil))
	})

	t.Run("valid", func(t *testing.T) {
		c, err := m.UpdateCapacity(10, map[string]int{"adult": 6, "child": 4})
		require.NoError(t, err)
		assert.Equal(t, 10, c.Total())
		assert.Equal(t, 0, c.Remaining())
	})
}

func TestManager_GetCapacitySnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	t.Run("non positive id short circuits", func(t *testing.T) {
		m, agg := newManager()
		for _, id := range []int64{0, -4} {
			snapshot, err := m.GetCapacitySnapshot(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 0, snapshot.Total)
			assert.Empty(t, snapshot.PerType)
		}
		agg.AssertNotCalled(t, "SnapshotBySlot", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delegates with current time", func(t *testing.T) {
		m, agg := newManager()
		m.timeProvider = fixedTime{now: now}
		want := domain.CapacitySnapshot{Total: 3, PerType: map[string]int{"adult": 3}}
		agg.On("SnapshotBySlot", ctx, int64(5), now).Return(want, nil).Once()

		got, err := m.GetCapacitySnapshot(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		agg.AssertExpectations(t)
	})

	t.Run("aggregation error", func(t *testing.T) {
		m, agg := newManager()
		m.timeProvider = fixedTime{now: now}
		agg.On("SnapshotBySlot", ctx, int64(5), now).Return(domain.CapacitySnapshot{}, errors.New("db down"))

		_, err := m.GetCapacitySnapshot(ctx, 5)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
