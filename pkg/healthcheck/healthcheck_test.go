package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func staticChecker(status Status, message string) CheckerFunc {
	return func(ctx context.Context) Check {
		return Check{Status: status, Message: message, LastChecked: time.Now()}
	}
}

func TestCheckAggregatesStatuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"no checkers", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("test", zaptest.NewLogger(t))
			hc.SetCacheTTL(0)
			for i, s := range tt.statuses {
				hc.Register(string(rune('a'+i)), staticChecker(s, ""))
			}

			resp := hc.Check(context.Background())

			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.statuses))
		})
	}
}

func TestCheckKeepsRegistrationOrder(t *testing.T) {
	hc := New("test", zaptest.NewLogger(t))
	hc.Register("database", staticChecker(StatusHealthy, ""))
	hc.Register("redis", staticChecker(StatusHealthy, ""))
	hc.Register("mood_energy_model", staticChecker(StatusDegraded, "model artifacts missing"))

	resp := hc.Check(context.Background())

	require.Len(t, resp.Checks, 3)
	assert.Equal(t, "database", resp.Checks[0].Name)
	assert.Equal(t, "redis", resp.Checks[1].Name)
	assert.Equal(t, "mood_energy_model", resp.Checks[2].Name)
}

func TestCheckCachesResponses(t *testing.T) {
	calls := 0
	hc := New("test", zaptest.NewLogger(t))
	hc.Register("counting", CheckerFunc(func(ctx context.Context) Check {
		calls++
		return Check{Status: StatusHealthy}
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, 1, calls)
}

func TestHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   int
	}{
		{"healthy", StatusHealthy, http.StatusOK},
		{"degraded still ok", StatusDegraded, http.StatusOK},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("test", zaptest.NewLogger(t))
			hc.Register("dep", staticChecker(tt.status, ""))

			rr := httptest.NewRecorder()
			hc.Handler()(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestReadinessDegradedIsReady(t *testing.T) {
	hc := New("test", zaptest.NewLogger(t))
	hc.Register("dep", staticChecker(StatusDegraded, "fallback path"))

	rr := httptest.NewRecorder()
	hc.ReadinessHandler()(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ready")
}

func TestReadinessUnhealthyIsNotReady(t *testing.T) {
	hc := New("test", zaptest.NewLogger(t))
	hc.Register("dep", staticChecker(StatusUnhealthy, "connection refused"))

	rr := httptest.NewRecorder()
	hc.ReadinessHandler()(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_ready")
}
