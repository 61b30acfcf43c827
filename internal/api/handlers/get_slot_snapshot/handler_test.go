package get_slot_snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *mockService) GetSnapshot(ctx context.Context, slotID int64) (domain.CapacitySnapshot, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).(domain.CapacitySnapshot), args.Error(1)
}

func get(h *Handler, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/slots/{slotId}/snapshot", h.Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func newSlot(t *testing.T, total int) *domain.Slot {
	t.Helper()
	tr, err := domain.TimeRangeFromUTCStrings("2025-01-06 09:00:00", "2025-01-06 10:00:00")
	require.NoError(t, err)
	c, err := domain.NewSlotCapacity(total, map[string]int{"child": 2})
	require.NoError(t, err)
	slot, err := domain.NewSlot(domain.SlotParams{ID: 6, ExperienceID: 10, TimeRange: tr, Capacity: c})
	require.NoError(t, err)
	return slot
}

func TestHandler_Handle(t *testing.T) {
	t.Run("booked and remaining", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetSlot", mock.Anything, int64(6)).Return(newSlot(t, 10), nil)
		svc.On("GetSnapshot", mock.Anything, int64(6)).
			Return(domain.CapacitySnapshot{Total: 7, PerType: map[string]int{"adult": 5, "child": 2}}, nil)

		rec := get(NewHandler(svc, logger.Nop{}), "/slots/6/snapshot")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SnapshotResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, SnapshotResponse{
			SlotID:          6,
			CapacityTotal:   10,
			CapacityPerType: map[string]int{"child": 2},
			Booked:          7,
			BookedPerType:   map[string]int{"adult": 5, "child": 2},
			Remaining:       3,
		}, resp)
	})

	t.Run("overbooked floors at zero", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetSlot", mock.Anything, int64(6)).Return(newSlot(t, 4), nil)
		svc.On("GetSnapshot", mock.Anything, int64(6)).Return(domain.CapacitySnapshot{Total: 6}, nil)

		rec := get(NewHandler(svc, logger.Nop{}), "/slots/6/snapshot")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"remaining":0`)
		assert.Contains(t, rec.Body.String(), `"booked_per_type":{}`)
	})

	t.Run("slot missing", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetSlot", mock.Anything, int64(6)).Return(nil, domain.ErrSlotNotFound(6))

		rec := get(NewHandler(svc, logger.Nop{}), "/slots/6/snapshot")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertNotCalled(t, "GetSnapshot", mock.Anything, mock.Anything)
	})

	t.Run("aggregation failure", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetSlot", mock.Anything, int64(6)).Return(newSlot(t, 4), nil)
		svc.On("GetSnapshot", mock.Anything, int64(6)).Return(domain.CapacitySnapshot{}, errors.New("timeout"))

		rec := get(NewHandler(svc, logger.Nop{}), "/slots/6/snapshot")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
