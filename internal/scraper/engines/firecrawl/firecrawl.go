package firecrawl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mendableai/firecrawl-go"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/internal/scraper"
)

// FirecrawlEngine renders pages through the Firecrawl API. The result is a
// static document: sessions cannot scroll, so the verification bypass fails
// fast on challenged pages instead of looping.
type FirecrawlEngine struct {
	config *config.Config
	app    *firecrawl.FirecrawlApp
	logger types.Logger
}

// NewFirecrawlEngine creates a new Firecrawl-backed rendering engine
func NewFirecrawlEngine(cfg *config.Config) *FirecrawlEngine {
	logger := logging.GetGlobalLogger()

	app, err := firecrawl.NewFirecrawlApp(
		cfg.Firecrawl.APIKey,
		cfg.Firecrawl.APIURL,
	)
	if err != nil {
		logger.Error("Failed to initialize Firecrawl", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	logger.Info("Firecrawl engine initialized", map[string]interface{}{
		"api_url": cfg.Firecrawl.APIURL,
	})

	return &FirecrawlEngine{
		config: cfg,
		app:    app,
		logger: logger,
	}
}

// Render fetches the URL through Firecrawl with retry logic and wraps the
// returned markup in a static session.
func (f *FirecrawlEngine) Render(ctx context.Context, url string) (scraper.PageSession, error) {
	scrapeParams := &firecrawl.ScrapeParams{
		Formats: []string{"html"},
	}

	var result *firecrawl.FirecrawlDocument
	var err error

	for attempt := 1; attempt <= f.config.Firecrawl.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.logger.Debug("Firecrawl render attempt", map[string]interface{}{
			"attempt":     attempt,
			"max_retries": f.config.Firecrawl.MaxRetries,
			"url":         url,
		})

		result, err = f.app.ScrapeURL(url, scrapeParams)
		if err == nil {
			break
		}

		f.logger.Warn("Firecrawl render attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < f.config.Firecrawl.MaxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("firecrawl render failed after %d attempts: %w", f.config.Firecrawl.MaxRetries, err)
	}
	if result == nil || result.HTML == "" {
		return nil, fmt.Errorf("no markup returned from Firecrawl for %s", url)
	}

	return &staticSession{html: result.HTML}, nil
}

// Cleanup releases any resources used by the engine
func (f *FirecrawlEngine) Cleanup() {
	f.logger.Info("Cleaning up Firecrawl engine resources", nil)
}

// IsHealthy returns true if the engine is ready to render pages
func (f *FirecrawlEngine) IsHealthy() bool {
	return f.app != nil
}

// staticSession wraps a one-shot Firecrawl document. It has no live page
// behind it, so Scroll reports ErrScrollUnsupported.
type staticSession struct {
	html string
}

func (s *staticSession) Text() (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.html))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}
	return doc.Text(), nil
}

func (s *staticSession) HTML() (string, error) {
	return s.html, nil
}

func (s *staticSession) Scroll(direction scraper.ScrollDirection) error {
	return scraper.ErrScrollUnsupported
}

func (s *staticSession) Close() {}
