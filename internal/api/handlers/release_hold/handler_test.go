package release_hold

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ExperienceBooking/internal/api/middleware"
	releaseHold "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/release_hold"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, token string, customerID int64) error {
	return m.Called(ctx, token, customerID).Error(0)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		err    error
		status int
	}{
		{name: "released", userID: "3", status: http.StatusNoContent},
		{name: "guest released", status: http.StatusNoContent},
		{name: "not found", userID: "3", err: releaseHold.ErrHoldNotFound, status: http.StatusNotFound},
		{name: "not active", userID: "3", err: releaseHold.ErrHoldNotActive, status: http.StatusConflict},
		{name: "other customer", userID: "3", err: releaseHold.ErrAccessDenied, status: http.StatusForbidden},
		{name: "bad token", userID: "3", err: releaseHold.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", userID: "3", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var customerID int64
			if tt.userID != "" {
				customerID = 3
			}
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, "abc", customerID).Return(tt.err)

			router := mux.NewRouter()
			router.Handle("/holds/{holdToken}", middleware.OptionalAuth(http.HandlerFunc(NewHandler(uc, logger.Nop{}).Handle)))
			req := httptest.NewRequest(http.MethodDelete, "/holds/abc", nil)
			if tt.userID != "" {
				req.Header.Set(middleware.HeaderUserID, tt.userID)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
