package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	err := domain.NewError(domain.CodeCapacityExceeded, "not enough seats", http.StatusConflict,
		map[string]interface{}{"slot_id": 5}).
		WithErrors([]string{"a", "b"})
	rec := httptest.NewRecorder()

	RespondDomainError(rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, domain.CodeCapacityExceeded, body.Code)
	assert.Equal(t, []string{"a", "b"}, body.Errors)
	assert.EqualValues(t, 5, body.Data["slot_id"])
}

func TestRespondDomainError_ZeroStatusIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.NewError("x", "y", 0, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Total int `json:"total"`
	}

	t.Run("ok", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"total": 3}`))
		require.NoError(t, DecodeJSON(r, &p))
		assert.Equal(t, 3, p.Total)
	})

	t.Run("unknown field", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"totl": 3}`))
		assert.Error(t, DecodeJSON(r, &p))
	})

	t.Run("broken json", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		assert.Error(t, DecodeJSON(r, &p))
	})
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "12", want: 12},
		{value: "0", wantErr: true},
		{value: "-1", wantErr: true},
		{value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slotId": tt.value})
			got, err := PathInt64(r, "slotId")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
