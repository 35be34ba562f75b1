package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func fire(t *testing.T, h http.Handler, ip string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.RemoteAddr = ip + ":51000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitReturns429OverBurst(t *testing.T) {
	h := RateLimit(1, 3)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, fire(t, h, "10.0.0.1"), "request %d within burst", i+1)
	}
	require.Equal(t, http.StatusTooManyRequests, fire(t, h, "10.0.0.1"))

	// other clients keep their own bucket
	require.Equal(t, http.StatusOK, fire(t, h, "10.0.0.2"))
}

func TestRateLimitInstancesDoNotShareBuckets(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	first := RateLimit(1, 1)(ok)
	second := RateLimit(1, 1)(ok)

	require.Equal(t, http.StatusOK, fire(t, first, "10.0.0.9"))
	require.Equal(t, http.StatusTooManyRequests, fire(t, first, "10.0.0.9"))

	// draining the first limiter must not affect the second
	require.Equal(t, http.StatusOK, fire(t, second, "10.0.0.9"))
}

func TestRateLimitUsesForwardedFor(t *testing.T) {
	h := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.RemoteAddr = "10.0.0.3:51000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// same forwarded client, different hop address: one bucket
	req2 := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req2.RemoteAddr = "10.0.0.4:51000"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
}
