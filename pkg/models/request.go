package models

import "time"

// ScrapeRequest represents the request payload for scraping a day's review
type ScrapeRequest struct {
	Date    string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Options *ScrapeOptions `json:"options,omitempty"`
}

// ScrapeOptions provides additional configuration for scraping requests
type ScrapeOptions struct {
	Engine    string        `json:"engine,omitempty"`     // "headed", "firecrawl", "auto"
	Timeout   time.Duration `json:"timeout,omitempty"`    // Request timeout
	UserAgent string        `json:"user_agent,omitempty"` // Custom user agent
}
