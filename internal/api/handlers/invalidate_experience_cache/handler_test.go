package invalidate_experience_cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Invalidate(ctx context.Context, experienceID int64) error {
	return m.Called(ctx, experienceID).Error(0)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalidated", status: http.StatusNoContent},
		{name: "redis down", err: errors.New("dial tcp"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := new(mockCache)
			cache.On("Invalidate", mock.Anything, int64(11)).Return(tt.err)

			router := mux.NewRouter()
			router.HandleFunc("/experiences/{experienceId}/cache", NewHandler(cache, logger.Nop{}).Handle)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/experiences/11/cache", nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
