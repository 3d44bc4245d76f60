// Package main provides the one-shot scrape CLI.
//
// It fetches the daily answer, scrapes the matching review page, and prints
// the combined result as JSON. Useful for cron setups and debugging
// extraction against a live page.
//
// Usage:
//
//	scrape [--date YYYY-MM-DD] [--engine headed|firecrawl|auto] [--output FILE]
package main

// main is the entry point for the scrape CLI.
func main() {
	Execute()
}
