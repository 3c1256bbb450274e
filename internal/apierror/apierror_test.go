package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/config"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/table"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"database", fmt.Errorf("%w: dial tcp", domain.ErrUnavailable), http.StatusServiceUnavailable, CodeDatabaseUnavailable},
		{"missing config", &config.MissingError{Keys: []string{"map.accessToken"}}, http.StatusServiceUnavailable, CodeConfigurationMissing},
		{"not found", fmt.Errorf("account %q: %w", "x", domain.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"conflict", domain.ErrSavedFilterNameConflict, http.StatusConflict, CodeConflict},
		{"invalid filters", fmt.Errorf("%w: bad mode", domain.ErrInvalidFilters), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown column", table.ErrUnknownColumn, http.StatusBadRequest, CodeInvalidRequest},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.NotNil(t, body.Actions)
		})
	}
}

func TestWriteDatabaseUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, zap.NewNop(), fmt.Errorf("%w: connection refused", domain.ErrUnavailable))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "database_unavailable", body["error"])
	assert.Equal(t, true, body["retryable"])
	assert.Equal(t, []any{"retry", "clear_cache"}, body["actions"])
}

func TestWriteHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, zap.NewNop(), errors.New("pq: password authentication failed for user admin"))

	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()

	Unauthorized(rec, "bidash")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), `realm="bidash"`)
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusOK, map[string]float64{"lat": math.NaN()})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeInternal, body.Code)
}
