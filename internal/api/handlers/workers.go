package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"wordlewatch/internal/scraper/workers"
	"wordlewatch/pkg/models"
)

// WorkerStatsHandler returns worker pool statistics
func WorkerStatsHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := poolManager.GetStats()
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "workers_unavailable",
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
		}
		return c.JSON(http.StatusOK, stats)
	}
}

// WorkerHealthHandler reports whether the worker pool is accepting jobs
func WorkerHealthHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !poolManager.IsHealthy() {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "healthy",
		})
	}
}
