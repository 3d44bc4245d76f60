package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/config"
	"wordlewatch/pkg/models"
)

func callbackConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.Callback.URL = url
	cfg.Callback.Timeout = 2 * time.Second
	cfg.Callback.MaxRetries = 3
	return cfg
}

func sampleResult() *models.ScrapeResult {
	return &models.ScrapeResult{
		Answer:    &models.PuzzleAnswer{Solution: "CRANE", PrintDate: "2026-08-28"},
		ScrapedAt: time.Now().UnixMilli(),
	}
}

func TestWriteDeliversPayload(t *testing.T) {
	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(callbackConfig(server.URL))
	require.NoError(t, err)

	require.NoError(t, client.Write(context.Background(), sampleResult()))
	assert.Equal(t, "review.scraped", received.Event)
	require.NotNil(t, received.Result)
	assert.Equal(t, "CRANE", received.Result.Answer.Solution)
}

func TestWriteRetriesUntilSuccess(t *testing.T) {
	var attempts int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(callbackConfig(server.URL))
	require.NoError(t, err)

	require.NoError(t, client.Write(context.Background(), sampleResult()))
	assert.Equal(t, int64(3), atomic.LoadInt64(&attempts))
}

func TestWriteGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(callbackConfig(server.URL))
	require.NoError(t, err)

	err = client.Write(context.Background(), sampleResult())

	require.Error(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&attempts))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(&config.Config{})
	assert.Error(t, err)
}
