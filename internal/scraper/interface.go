package scraper

import (
	"context"
	"errors"
)

// ScrollDirection selects the target of a full-amplitude scroll action.
type ScrollDirection int

const (
	ScrollDown ScrollDirection = iota
	ScrollUp
)

// ErrScrollUnsupported is returned by sessions that cannot interact with the
// page (static fetch engines). The bypass loop fails fast on it instead of
// burning its cycle budget.
var ErrScrollUnsupported = errors.New("page session does not support scrolling")

// PageSession is a live rendered page handed out by an Engine. Sessions are
// single-use: one Render call, one Close.
type PageSession interface {
	// Text returns the page's visible text content.
	Text() (string, error)

	// HTML returns the full markup of the current page state.
	HTML() (string, error)

	// Scroll performs one full-amplitude scroll in the given direction.
	Scroll(direction ScrollDirection) error

	// Close releases the session's resources.
	Close()
}

// Engine defines the interface for all rendering engines
type Engine interface {
	// Render loads the URL and returns a session over the loaded page
	Render(ctx context.Context, url string) (PageSession, error)

	// Cleanup releases any resources used by the engine
	Cleanup()

	// IsHealthy returns true if the engine is ready to render pages
	IsHealthy() bool
}
