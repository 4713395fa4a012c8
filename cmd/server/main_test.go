package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("SESSION_STORE", "memory")
	cfg, err := config.LoadFiles()
	require.NoError(t, err)
	return cfg
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID    string `json:"id"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func TestNewApp_MemoryStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedSessions = true

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.memoryStore)
	require.NotNil(t, a.rateLimiter)

	id := createSession(t, a.handler)
	session, err := a.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "13200", session.Ledger.TotalCost().String())

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "splitledger_sessions_created_total 1")
}

func TestNewApp_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.SessionStore = config.StoreRedis
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.MetricsEnabled = false
	cfg.RateLimitRPS = 0

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.memoryStore)
	assert.Nil(t, a.rateLimiter)

	id := createSession(t, a.handler)
	assert.True(t, mr.Exists("session:"+id))

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionStore = config.StoreRedis
	cfg.RedisURL = "redis://127.0.0.1:1"

	_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestApp_SweepPurgesExpiredSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionTTL = time.Nanosecond

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)

	id := createSession(t, a.handler)
	time.Sleep(time.Millisecond)
	a.sweep(zerolog.Nop())

	_, err = a.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPPort = "0"
	cfg.HTTPShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
