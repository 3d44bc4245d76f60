package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/review"
	"wordlewatch/internal/scraper/workers"
	"wordlewatch/internal/storage"
	"wordlewatch/pkg/models"
	"wordlewatch/pkg/utils"
)

var validate = validator.New()

// ScrapeHandler handles on-demand review scrape requests using the worker pool
func ScrapeHandler(cfg *config.Config, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.ScrapeRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		date, err := review.ParseDate(req.Date, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_date",
				Message:   fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", req.Date),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Processing scrape request", map[string]interface{}{
			"date": date.Format("2006-01-02"),
		})

		ctx := c.Request().Context()
		result, err := poolManager.SubmitJob(ctx, date, req.Options)
		if err != nil {
			logger.Error("Failed to submit job to worker pool", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "job_submission_failed",
				Message:   fmt.Sprintf("Failed to submit scrape job: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if result.Error != nil {
			logger.Error("Scrape job failed", map[string]interface{}{"error": result.Error.Error()})
			return c.JSON(statusForError(result.Error), models.ErrorResponse{
				Error:     errorCode(result.Error),
				Message:   result.Error.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		engine := cfg.Scraper.Engine
		if req.Options != nil && req.Options.Engine != "" {
			engine = req.Options.Engine
		}

		response := models.ScrapeResponse{
			Success:        true,
			Result:         result.Result,
			ProcessingTime: time.Since(start),
			Engine:         engine,
			RequestID:      requestID,
		}

		logger.Info("Scrape request completed successfully", map[string]interface{}{
			"processing_time": time.Since(start).String(),
			"engine":          engine,
		})

		return c.JSON(http.StatusOK, response)
	}
}

// LatestReviewHandler serves the most recently scraped result, preferring
// the cache when one is configured.
func LatestReviewHandler(store *storage.Store, cache *utils.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if cache != nil {
			if result, err := cache.GetLatest(ctx); err == nil {
				return c.JSON(http.StatusOK, result)
			}
		}

		result, err := store.Latest(ctx)
		if err != nil {
			return reviewLookupError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

// ReviewByDateHandler serves the stored result for a YYYY-MM-DD date.
func ReviewByDateHandler(store *storage.Store, cache *utils.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		date := c.Param("date")

		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_date",
				Message:   fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date),
				Timestamp: time.Now(),
			})
		}

		if cache != nil {
			if result, err := cache.GetByDate(ctx, date); err == nil {
				return c.JSON(http.StatusOK, result)
			}
		}

		result, err := store.ByDate(ctx, date)
		if err != nil {
			return reviewLookupError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func reviewLookupError(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "not_found",
			Message:   "No scrape record for the requested date",
			Timestamp: time.Now(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "storage_error",
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

func statusForError(err error) int {
	var ce *utils.CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

func errorCode(err error) string {
	var ce *utils.CustomError
	if errors.As(err, &ce) {
		return string(ce.Kind)
	}
	return "scraping_failed"
}
