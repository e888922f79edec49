package network

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	cfg := &models.MConfig{}
	cfg.Network.RequestTimeout = 5
	cfg.Network.MaxRetries = 3
	cfg.Network.UserAgent = "test-agent"
	return cfg
}

// -----------------------------------------------------------------------------

func TestGetRetriesTransientFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	nm := NewManager(testConfig(), logger.NewLogger("test"))
	body, err := nm.Get(srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

// -----------------------------------------------------------------------------

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	nm := NewManager(testConfig(), logger.NewLogger("test"))
	_, err := nm.Get(srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

// -----------------------------------------------------------------------------

func TestGetSendsParamsAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GME", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/zip", r.Header.Get("Accept"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	nm := NewManager(testConfig(), logger.NewLogger("test"))
	body, err := nm.GetWithHeaders(srv.URL, map[string]string{"symbol": "GME"},
		map[string]string{"Accept": "application/zip"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

// -----------------------------------------------------------------------------

func TestGetExhaustsRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Network.MaxRetries = 1
	nm := NewManager(cfg, logger.NewLogger("test"))

	_, err := nm.Get(srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
