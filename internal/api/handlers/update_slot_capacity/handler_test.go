package update_slot_capacity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateCapacity(ctx context.Context, slotID int64, total int, perType map[string]int) (*domain.Slot, error) {
	args := m.Called(ctx, slotID, total, perType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func put(h *Handler, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/slots/{slotId}/capacity", h.Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/slots/2/capacity", strings.NewReader(body)))
	return rec
}

func TestHandler_Handle(t *testing.T) {
	t.Run("per type exceeds total", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UpdateCapacity", mock.Anything, int64(2), 10, map[string]int{"adult": 8, "child": 4}).Return(nil,
			domain.ErrCapacityInvalid("per-type sum exceeds total", map[string]interface{}{"per_type_sum": 12}))

		rec := put(NewHandler(svc, logger.Nop{}), `{"capacity_total": 10, "capacity_per_type": {"adult": 8, "child": 4}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"per_type_sum":12`)
	})

	t.Run("total is required", func(t *testing.T) {
		svc := new(mockService)
		rec := put(NewHandler(svc, logger.Nop{}), `{"capacity_per_type": {"adult": 1}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateCapacity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
