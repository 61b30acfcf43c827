package create_slot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/slots"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateSlot(ctx context.Context, req slots.CreateSlotRequest) (*domain.Slot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(body)))
	return rec
}

func TestParseWindow(t *testing.T) {
	t.Run("stored utc format", func(t *testing.T) {
		tr, err := ParseWindow("2025-05-01 09:00:00", "2025-05-01 10:30:00")
		require.NoError(t, err)
		assert.Equal(t, 90, tr.DurationMinutes())
	})

	t.Run("iso with offset", func(t *testing.T) {
		tr, err := ParseWindow("2025-05-01T11:00:00+02:00", "2025-05-01T12:00:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, "2025-05-01 09:00:00", tr.StartUTCString())
	})

	t.Run("reversed", func(t *testing.T) {
		_, err := ParseWindow("2025-05-01 10:00:00", "2025-05-01 09:00:00")
		assert.Error(t, err)
	})
}

func TestHandler_Handle(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		tr, err := domain.NewTimeRange(
			time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		capacity, err := domain.NewSlotCapacity(12, nil)
		require.NoError(t, err)
		slot, err := domain.NewSlot(domain.SlotParams{
			ID: 7, ExperienceID: 3, TimeRange: tr, Capacity: capacity, Status: string(domain.SlotStatusOpen),
		})
		require.NoError(t, err)

		svc := new(mockService)
		svc.On("CreateSlot", mock.Anything, mock.MatchedBy(func(req slots.CreateSlotRequest) bool {
			return req.ExperienceID == 3 && req.CapacityTotal == 12 && req.TimeRange.Equal(tr)
		})).Return(slot, nil)

		rec := post(NewHandler(svc, logger.Nop{}),
			`{"experience_id": 3, "start_datetime": "2025-05-01 09:00:00", "end_datetime": "2025-05-01 10:00:00", "capacity_total": 12}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var view domain.SlotView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		assert.Equal(t, int64(7), view.ID)
		assert.Equal(t, "2025-05-01 09:00:00", view.StartDatetime)
	})

	t.Run("buffer conflict", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateSlot", mock.Anything, mock.Anything).Return(nil,
			domain.NewError(domain.CodeBufferConflict, "conflict", http.StatusConflict, nil))

		rec := post(NewHandler(svc, logger.Nop{}),
			`{"experience_id": 3, "start_datetime": "2025-05-01 09:00:00", "end_datetime": "2025-05-01 10:00:00", "capacity_total": 12}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.CodeBufferConflict)
	})

	t.Run("bad window", func(t *testing.T) {
		svc := new(mockService)
		rec := post(NewHandler(svc, logger.Nop{}), `{"experience_id": 3, "start_datetime": "soon", "end_datetime": "later"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateSlot", mock.Anything, mock.Anything)
	})
}
