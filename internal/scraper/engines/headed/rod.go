package headed

import (
	"context"
	"time"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/scraper"
)

// RodEngine renders pages in a stealth Chrome instance via Rod. It is the
// engine of choice for pages guarded by a verification interstitial, since
// its sessions support the scroll interactions the bypass loop needs.
type RodEngine struct {
	config         *config.Config
	browserManager *BrowserManager
}

// NewRodEngine creates a new Rod-backed rendering engine
func NewRodEngine(cfg *config.Config) *RodEngine {
	return &RodEngine{
		config:         cfg,
		browserManager: NewBrowserManager(cfg),
	}
}

// Render loads the URL in a fresh stealth page and hands back a live session.
func (re *RodEngine) Render(ctx context.Context, url string) (scraper.PageSession, error) {
	logger := logging.GetGlobalLogger()

	browser, err := re.browserManager.GetBrowser(ctx)
	if err != nil {
		return nil, err
	}

	timeout := re.config.Scraper.RequestTimeout
	if err := browser.Navigate(ctx, url, timeout); err != nil {
		browser.Release()
		return nil, err
	}

	// Let late-loading scripts settle before anyone inspects the page
	time.Sleep(re.config.Scraper.SettleDelay)

	logger.Debug("Page rendered", map[string]interface{}{"url": url})

	return &rodSession{instance: browser}, nil
}

// Cleanup releases the underlying browser pool
func (re *RodEngine) Cleanup() {
	re.browserManager.Cleanup()
}

// IsHealthy returns true if the browser pool can serve sessions
func (re *RodEngine) IsHealthy() bool {
	return re.browserManager.IsHealthy()
}

// rodSession is a live page held by a single scrape.
type rodSession struct {
	instance *BrowserInstance
}

func (s *rodSession) Text() (string, error) {
	return s.instance.GetPageText()
}

func (s *rodSession) HTML() (string, error) {
	return s.instance.GetPageHTML()
}

func (s *rodSession) Scroll(direction scraper.ScrollDirection) error {
	if direction == scraper.ScrollDown {
		return s.instance.ScrollToBottom()
	}
	return s.instance.ScrollToTop()
}

func (s *rodSession) Close() {
	s.instance.Release()
}
