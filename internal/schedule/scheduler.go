package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/internal/scraper/workers"
)

// Scheduler triggers one scrape per day at the configured wall-clock time.
// The answer endpoint publishes at midnight puzzle-local time, so the
// default fire time leaves a margin for the review article to go up.
type Scheduler struct {
	config   *config.Config
	pool     *workers.PoolManager
	location *time.Location
	logger   types.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

func NewScheduler(cfg *config.Config, pool *workers.PoolManager) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	if _, err := parseFireTime(cfg.Schedule.At); err != nil {
		return nil, err
	}

	return &Scheduler{
		config:   cfg,
		pool:     pool,
		location: loc,
		logger:   logging.GetGlobalLogger(),
	}, nil
}

// Start launches the scheduling loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Scheduler started", map[string]interface{}{
		"at":       s.config.Schedule.At,
		"timezone": s.config.Schedule.Timezone,
	})
	return nil
}

// Stop halts the scheduling loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := s.nextFireTime(time.Now().In(s.location))
		s.logger.Info("Next scheduled scrape", map[string]interface{}{
			"fire_at": next.Format(time.RFC3339),
		})

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.fire(ctx)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	now := time.Now().In(s.location)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s.logger.Info("Running scheduled scrape", map[string]interface{}{
		"date": date.Format("2006-01-02"),
	})

	result, err := s.pool.SubmitJob(ctx, date, nil)
	if err != nil {
		s.logger.Error("Scheduled scrape submission failed", map[string]interface{}{
			"date":  date.Format("2006-01-02"),
			"error": err.Error(),
		})
		return
	}
	if result.Error != nil {
		s.logger.Error("Scheduled scrape failed", map[string]interface{}{
			"date":  date.Format("2006-01-02"),
			"error": result.Error.Error(),
		})
		return
	}

	s.logger.Info("Scheduled scrape completed", map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"duration": result.Duration.String(),
	})
}

// nextFireTime returns the next occurrence of the configured HH:MM after now.
func (s *Scheduler) nextFireTime(now time.Time) time.Time {
	fire, _ := parseFireTime(s.config.Schedule.At)

	next := time.Date(now.Year(), now.Month(), now.Day(), fire.hour, fire.minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

type fireTime struct {
	hour, minute int
}

func parseFireTime(at string) (fireTime, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return fireTime{}, fmt.Errorf("invalid schedule time %q, expected HH:MM: %w", at, err)
	}
	return fireTime{hour: t.Hour(), minute: t.Minute()}, nil
}
