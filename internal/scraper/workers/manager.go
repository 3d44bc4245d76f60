package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordlewatch/internal/answers"
	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/internal/review"
	"wordlewatch/internal/scraper"
	"wordlewatch/internal/scraper/engines"
	"wordlewatch/pkg/models"
)

// PoolManager manages the worker pool lifecycle and assembles the scrape
// pipeline each job runs. Rendering engines are created lazily and reused
// across jobs so the headed engine keeps its browser pool warm.
type PoolManager struct {
	config      *config.Config
	pool        *WorkerPool
	answers     *answers.Client
	sinks       []review.Sink
	snapshots   review.Snapshotter
	engines     map[string]scraper.Engine
	enginesMu   sync.Mutex
	logger      types.Logger
	mu          sync.RWMutex
	initialized bool
}

// NewPoolManager creates a new worker pool manager
func NewPoolManager(cfg *config.Config, answersClient *answers.Client, sinks []review.Sink, snapshots review.Snapshotter) *PoolManager {
	return &PoolManager{
		config:    cfg,
		answers:   answersClient,
		sinks:     sinks,
		snapshots: snapshots,
		engines:   make(map[string]scraper.Engine),
		logger:    logging.GetGlobalLogger(),
	}
}

// Initialize initializes the worker pool
func (pm *PoolManager) Initialize() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.initialized {
		return fmt.Errorf("worker pool already initialized")
	}

	pm.logger.Info("Initializing worker pool")

	pm.pool = NewWorkerPool(pm.config, pm)

	if err := pm.pool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	pm.initialized = true
	pm.logger.Info("Worker pool initialized successfully")
	return nil
}

// Shutdown gracefully shuts down the worker pool
func (pm *PoolManager) Shutdown() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.initialized || pm.pool == nil {
		return nil
	}

	pm.logger.Info("Shutting down worker pool")

	if err := pm.pool.Stop(); err != nil {
		pm.logger.Error("Error stopping worker pool", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	pm.pool.rateLimiter.Stop()

	pm.enginesMu.Lock()
	for name, engine := range pm.engines {
		engine.Cleanup()
		delete(pm.engines, name)
	}
	pm.enginesMu.Unlock()

	pm.initialized = false
	pm.logger.Info("Worker pool shutdown complete")
	return nil
}

// SubmitJob submits a scrape job to the worker pool
func (pm *PoolManager) SubmitJob(ctx context.Context, date time.Time, options *models.ScrapeOptions) (*JobResult, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if !pm.initialized || pm.pool == nil {
		return nil, fmt.Errorf("worker pool not initialized")
	}

	return pm.pool.SubmitJob(ctx, date, options)
}

// RunScrape assembles a pipeline for the requested engine and runs one scrape.
func (pm *PoolManager) RunScrape(ctx context.Context, date time.Time, options *models.ScrapeOptions) (*models.ScrapeResult, error) {
	engineName := pm.config.Scraper.Engine
	if options != nil && options.Engine != "" {
		engineName = options.Engine
	}

	engine, err := pm.getEngine(engineName)
	if err != nil {
		return nil, err
	}

	pipeline := review.NewPipeline(pm.config, pm.answers, engine)
	if pm.snapshots != nil {
		pipeline.WithSnapshots(pm.snapshots)
	}
	for _, sink := range pm.sinks {
		pipeline.AddSink(sink)
	}

	return pipeline.Run(ctx, date)
}

// TargetDomain returns the rate-limiting key for scrape jobs.
func (pm *PoolManager) TargetDomain() string {
	return ExtractDomain(pm.config.Review.BaseURL)
}

// getEngine returns a cached engine for the name, creating it on first use.
func (pm *PoolManager) getEngine(name string) (scraper.Engine, error) {
	pm.enginesMu.Lock()
	defer pm.enginesMu.Unlock()

	if engine, ok := pm.engines[name]; ok {
		return engine, nil
	}

	engine, err := engines.NewEngine(pm.config, name)
	if err != nil {
		return nil, err
	}
	pm.engines[name] = engine
	return engine, nil
}

// GetStats returns worker pool statistics
func (pm *PoolManager) GetStats() (*PoolManagerStats, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if !pm.initialized || pm.pool == nil {
		return nil, fmt.Errorf("worker pool not initialized")
	}

	poolStats := pm.pool.GetStats()
	rateLimiterStats := pm.pool.rateLimiter.GetAllStats()

	return &PoolManagerStats{
		Initialized: pm.initialized,
		PoolStats: &PoolStatsData{
			JobsQueued:            poolStats.JobsQueued,
			JobsProcessed:         poolStats.JobsProcessed,
			JobsSuccessful:        poolStats.JobsSuccessful,
			JobsFailed:            poolStats.JobsFailed,
			AverageProcessingTime: poolStats.AverageProcessingTime.String(),
		},
		RateLimiterStats: rateLimiterStats,
		WorkerCount:      len(pm.pool.workers),
		QueueCapacity:    pm.config.Workers.QueueSize,
	}, nil
}

// IsHealthy returns true if the worker pool is healthy
func (pm *PoolManager) IsHealthy() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.initialized && pm.pool != nil && pm.pool.IsRunning()
}

// PoolManagerStats represents comprehensive statistics for the pool manager
type PoolManagerStats struct {
	Initialized      bool                              `json:"initialized"`
	PoolStats        *PoolStatsData                    `json:"pool_stats"`
	RateLimiterStats map[string]map[string]interface{} `json:"rate_limiter_stats"`
	WorkerCount      int                               `json:"worker_count"`
	QueueCapacity    int                               `json:"queue_capacity"`
}

// PoolStatsData is the serializable form of PoolStats
type PoolStatsData struct {
	JobsQueued            int64  `json:"jobs_queued"`
	JobsProcessed         int64  `json:"jobs_processed"`
	JobsSuccessful        int64  `json:"jobs_successful"`
	JobsFailed            int64  `json:"jobs_failed"`
	AverageProcessingTime string `json:"average_processing_time"`
}
