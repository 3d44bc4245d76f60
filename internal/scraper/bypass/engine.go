// Package bypass clears passive bot-verification walls. It never solves a
// challenge; it only performs the sustained viewport interaction many
// anti-bot heuristics key off, and re-inspects the page until the wall
// drops or the cycle budget runs out.
package bypass

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/internal/scraper"
	"wordlewatch/pkg/utils"
)

// State is the verification state of a page-clearing attempt. It lives only
// for the duration of a single attempt.
type State int

const (
	StateUnknown State = iota
	StateChallenged
	StateCleared
	StateTimedOut
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateChallenged:
		return "challenged"
	case StateCleared:
		return "cleared"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Action is what the rendering collaborator should do next.
type Action int

const (
	ActionNone Action = iota
	ActionScrollDown
	ActionScrollUp
)

// DefaultMarkers are the wall phrases that distinguish a challenged page
// from real content. Matching is case-insensitive substring.
var DefaultMarkers = []string{
	"thank you for your patience",
	"verifying you are human",
	"verify you are human",
	"checking your browser",
	"just a moment",
	"please enable javascript and cookies",
	"access to this page has been denied",
}

// Engine drives the bounded scroll/wait recovery loop.
type Engine struct {
	markers     []string
	maxCycles   int
	settleDelay time.Duration
	logger      types.Logger
}

// New creates a bypass engine from configuration. An empty marker list in
// config falls back to the built-in set.
func New(cfg *config.Config) *Engine {
	markers := cfg.Scraper.Bypass.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}

	maxCycles := cfg.Scraper.Bypass.MaxCycles
	if maxCycles <= 0 {
		maxCycles = 30
	}

	settle := cfg.Scraper.Bypass.SettleDelay
	if settle <= 0 {
		settle = 2 * time.Second
	}

	return &Engine{
		markers:     lowered,
		maxCycles:   maxCycles,
		settleDelay: settle,
		logger:      logging.GetGlobalLogger(),
	}
}

// challenged reports whether any wall marker appears in the page text.
func (e *Engine) challenged(pageText string) bool {
	text := strings.ToLower(pageText)
	for _, marker := range e.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// Next is the pure state-transition function. Given the current state, the
// zero-based cycle index, and the observed page text, it returns the next
// state and the action the collaborator should execute. Terminal states map
// to themselves with no action.
func (e *Engine) Next(state State, cycle int, pageText string) (State, Action) {
	switch state {
	case StateCleared, StateTimedOut:
		return state, ActionNone
	}

	if !e.challenged(pageText) {
		return StateCleared, ActionNone
	}

	// Alternate full-amplitude scroll direction each cycle.
	if cycle%2 == 0 {
		return StateChallenged, ActionScrollDown
	}
	return StateChallenged, ActionScrollUp
}

// Clear polls the page until the verification wall drops or the cycle
// budget is exhausted. The common unchallenged case returns after a single
// text inspection with no scroll performed. Each budgeted cycle is a
// scroll, a settle wait, then a fresh inspection, so the page after the
// final scroll is always observed before a timeout is declared.
func (e *Engine) Clear(ctx context.Context, page scraper.PageSession) (State, error) {
	text, err := page.Text()
	if err != nil {
		return StateUnknown, utils.NewNavigationError(fmt.Sprintf("failed to read page text: %v", err))
	}

	state, action := e.Next(StateUnknown, 0, text)
	if state == StateCleared {
		e.logger.Info("Verification wall cleared", map[string]interface{}{
			"cycles": 0,
		})
		return state, nil
	}

	e.logger.Info("Verification wall detected, starting bypass loop", map[string]interface{}{
		"max_cycles": e.maxCycles,
	})

	for cycle := 0; cycle < e.maxCycles; cycle++ {
		if err := e.execute(page, action); err != nil {
			return StateTimedOut, utils.NewVerificationTimeoutError(
				fmt.Sprintf("challenged page cannot be interacted with: %v", err))
		}

		if !sleepWithContext(ctx, e.settleDelay) {
			return StateTimedOut, utils.NewVerificationTimeoutError("cancelled while waiting for page to settle")
		}

		text, err := page.Text()
		if err != nil {
			return state, utils.NewNavigationError(fmt.Sprintf("failed to read page text: %v", err))
		}

		state, action = e.Next(state, cycle+1, text)
		if state == StateCleared {
			e.logger.Info("Verification wall cleared", map[string]interface{}{
				"cycles": cycle + 1,
			})
			return state, nil
		}
	}

	e.logger.Warn("Verification bypass budget exhausted", map[string]interface{}{
		"max_cycles": e.maxCycles,
	})
	return StateTimedOut, utils.NewVerificationTimeoutError(
		fmt.Sprintf("page still challenged after %d cycles", e.maxCycles))
}

// execute performs the requested scroll action on the session.
func (e *Engine) execute(page scraper.PageSession, action Action) error {
	switch action {
	case ActionScrollDown:
		return page.Scroll(scraper.ScrollDown)
	case ActionScrollUp:
		return page.Scroll(scraper.ScrollUp)
	default:
		return nil
	}
}

// sleepWithContext sleeps for d or until ctx is cancelled. Returns true if
// the sleep completed normally.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
