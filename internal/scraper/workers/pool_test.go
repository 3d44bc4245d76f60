package workers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/config"
	"wordlewatch/pkg/models"
)

// fakeRunner counts scrapes and fails on demand.
type fakeRunner struct {
	calls int64
	fail  bool
}

func (f *fakeRunner) RunScrape(ctx context.Context, date time.Time, options *models.ScrapeOptions) (*models.ScrapeResult, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.fail {
		return nil, fmt.Errorf("scrape blew up")
	}
	return &models.ScrapeResult{
		Answer:    &models.PuzzleAnswer{Solution: "CRANE", PrintDate: date.Format("2006-01-02")},
		ScrapedAt: time.Now().UnixMilli(),
	}, nil
}

func (f *fakeRunner) TargetDomain() string { return "example.com" }

func poolConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Workers.PoolSize = 2
	cfg.Workers.QueueSize = 4
	cfg.Workers.RateLimit = 600 // effectively unlimited for tests
	cfg.Workers.Timeout = 5 * time.Second
	return cfg
}

func TestSubmitJobRoundTrip(t *testing.T) {
	runner := &fakeRunner{}
	pool := NewWorkerPool(poolConfig(), runner)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	result, err := pool.SubmitJob(context.Background(), date, nil)

	require.NoError(t, err)
	require.NoError(t, result.Error)
	assert.Equal(t, "CRANE", result.Result.Answer.Solution)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, int64(1), atomic.LoadInt64(&runner.calls))
}

func TestSubmitJobPropagatesScrapeFailure(t *testing.T) {
	runner := &fakeRunner{fail: true}
	pool := NewWorkerPool(poolConfig(), runner)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	result, err := pool.SubmitJob(context.Background(), time.Now(), nil)

	require.NoError(t, err, "submission itself succeeds; the failure rides in the result")
	assert.Error(t, result.Error)
	assert.Nil(t, result.Result)
}

func TestSubmitJobWhenNotRunning(t *testing.T) {
	pool := NewWorkerPool(poolConfig(), &fakeRunner{})

	_, err := pool.SubmitJob(context.Background(), time.Now(), nil)

	assert.Error(t, err)
}

func TestPoolStatsTrackOutcomes(t *testing.T) {
	runner := &fakeRunner{}
	pool := NewWorkerPool(poolConfig(), runner)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	for i := 0; i < 3; i++ {
		_, err := pool.SubmitJob(context.Background(), time.Now(), nil)
		require.NoError(t, err)
	}

	stats := pool.GetStats()
	assert.Equal(t, int64(3), stats.JobsQueued)
	assert.Equal(t, int64(3), stats.JobsProcessed)
	assert.Equal(t, int64(3), stats.JobsSuccessful)
	assert.Equal(t, int64(0), stats.JobsFailed)
}

func TestStartTwiceFails(t *testing.T) {
	pool := NewWorkerPool(poolConfig(), &fakeRunner{})
	require.NoError(t, pool.Start())
	defer pool.Stop()

	assert.Error(t, pool.Start())
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "www.nytimes.com", ExtractDomain("https://www.nytimes.com/crosswords"))
	assert.Equal(t, "unknown", ExtractDomain("://not a url"))
}
