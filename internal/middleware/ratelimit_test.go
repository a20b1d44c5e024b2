package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:4242"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestRateLimiter_IsolatesClients(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:4242"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:4242"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:4242"))
}

func TestRateLimiter_EvictsStaleClientsOnAccess(t *testing.T) {
	rl := NewRateLimiter(60, 1)

	require.True(t, rl.allow("10.0.0.1"))

	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastSeen = time.Now().Add(-rl.lifetime - time.Minute)
	rl.nextSweep = time.Now().Add(-time.Second)
	rl.mu.Unlock()

	require.True(t, rl.allow("10.0.0.2"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.Contains(t, rl.clients, "10.0.0.2")
}
