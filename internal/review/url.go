package review

import (
	"fmt"
	"strings"
	"time"

	"wordlewatch/pkg/models"
)

// ReviewURL builds the hint review article URL for an answer. The article
// is published the day before the puzzle date, so the path uses the answer
// date shifted back by one day while the puzzle number stays the answer's
// days-since-launch count.
func ReviewURL(baseURL, section string, answer *models.PuzzleAnswer) string {
	published := answer.Date.AddDate(0, 0, -1)
	return fmt.Sprintf("%s/%s/%s/wordle-review-%d.html",
		strings.TrimRight(baseURL, "/"),
		published.Format("2006/01/02"),
		section,
		answer.DaysSinceLaunch,
	)
}

// ParseDate parses a YYYY-MM-DD request date, defaulting to today's date
// in loc when the input is empty.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}
