package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"wordlewatch/internal/answers"
	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/scraper"
	"wordlewatch/internal/scraper/bypass"
	"wordlewatch/internal/scraper/extract"
	"wordlewatch/pkg/models"
	"wordlewatch/pkg/utils"
)

// Sink receives completed scrape results. Sink failures are logged and do
// not fail the scrape itself.
type Sink interface {
	Name() string
	Write(ctx context.Context, result *models.ScrapeResult) error
}

// Snapshotter persists raw page markup for later inspection.
type Snapshotter interface {
	Save(date time.Time, html string) (string, error)
}

// Pipeline runs one full scrape: answer fetch, page render, verification
// bypass, hint extraction, then fan-out to the configured sinks.
type Pipeline struct {
	cfg       *config.Config
	answers   *answers.Client
	engine    scraper.Engine
	bypass    *bypass.Engine
	snapshots Snapshotter
	sinks     []Sink
}

func NewPipeline(cfg *config.Config, answersClient *answers.Client, engine scraper.Engine) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		answers: answersClient,
		engine:  engine,
		bypass:  bypass.New(cfg),
	}
}

// WithSnapshots enables raw HTML capture for scraped pages.
func (p *Pipeline) WithSnapshots(s Snapshotter) *Pipeline {
	p.snapshots = s
	return p
}

// AddSink registers a result sink. Sinks are written in registration order.
func (p *Pipeline) AddSink(s Sink) {
	p.sinks = append(p.sinks, s)
}

// Run scrapes the review page for the puzzle published on date. Extraction
// misses degrade to empty fields; fetch, navigation, and verification
// failures abort the run.
func (p *Pipeline) Run(ctx context.Context, date time.Time) (*models.ScrapeResult, error) {
	logger := logging.GetGlobalLogger()
	start := time.Now()

	answer, err := p.answers.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	url := ReviewURL(p.cfg.Review.BaseURL, p.cfg.Review.Section, answer)
	logger.Info("Scraping review page", map[string]interface{}{
		"url":  url,
		"date": answer.PrintDate,
	})

	page, err := p.engine.Render(ctx, url)
	if err != nil {
		return nil, utils.NewNavigationError(fmt.Sprintf("failed to load %s: %v", url, err))
	}
	defer page.Close()

	state, err := p.bypass.Clear(ctx, page)
	if err != nil {
		return nil, err
	}
	logger.Debug("Verification check finished", map[string]interface{}{"state": state.String()})

	html, err := page.HTML()
	if err != nil {
		return nil, utils.NewScrapingError(fmt.Sprintf("failed to read page markup: %v", err))
	}

	if p.snapshots != nil {
		if path, err := p.snapshots.Save(answer.Date, html); err != nil {
			logger.Warn("Failed to write page snapshot", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Debug("Saved page snapshot", map[string]interface{}{"path": path})
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, utils.NewScrapingError(fmt.Sprintf("failed to parse page markup: %v", err))
	}

	result := &models.ScrapeResult{
		Answer: answer,
		Hints: models.HintRecord{
			Hint:       extract.Hints(doc, logger),
			Difficulty: extract.Difficulty(doc, logger),
			Details:    extract.Definition(doc, logger),
		},
		ScrapedAt: time.Now().UnixMilli(),
	}

	p.fanOut(ctx, result)

	logger.Info("Scrape completed", map[string]interface{}{
		"date":     answer.PrintDate,
		"duration": utils.FormatDuration(time.Since(start)),
	})

	return result, nil
}

func (p *Pipeline) fanOut(ctx context.Context, result *models.ScrapeResult) {
	logger := logging.GetGlobalLogger()
	for _, sink := range p.sinks {
		if err := sink.Write(ctx, result); err != nil {
			logger.Error("Result sink write failed", map[string]interface{}{
				"sink":  sink.Name(),
				"error": err.Error(),
			})
		}
	}
}
