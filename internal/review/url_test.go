package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/pkg/models"
)

func answerFor(date string, daysSinceLaunch int) *models.PuzzleAnswer {
	d, _ := time.Parse("2006-01-02", date)
	return &models.PuzzleAnswer{
		PrintDate:       date,
		Date:            d,
		DaysSinceLaunch: daysSinceLaunch,
	}
}

func TestReviewURLUsesDayBeforePuzzleDate(t *testing.T) {
	url := ReviewURL("https://www.nytimes.com", "crosswords", answerFor("2026-08-28", 1896))

	assert.Equal(t, "https://www.nytimes.com/2026/08/27/crosswords/wordle-review-1896.html", url)
}

func TestReviewURLMonthBoundary(t *testing.T) {
	url := ReviewURL("https://www.nytimes.com", "crosswords", answerFor("2026-03-01", 1716))

	assert.Equal(t, "https://www.nytimes.com/2026/02/28/crosswords/wordle-review-1716.html", url)
}

func TestReviewURLYearBoundary(t *testing.T) {
	url := ReviewURL("https://www.nytimes.com/", "crosswords", answerFor("2026-01-01", 1657))

	assert.Equal(t, "https://www.nytimes.com/2025/12/31/crosswords/wordle-review-1657.html", url)
}

func TestParseDateExplicit(t *testing.T) {
	d, err := ParseDate("2026-08-28", time.UTC)

	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", d.Format("2006-01-02"))
}

func TestParseDateEmptyDefaultsToToday(t *testing.T) {
	d, err := ParseDate("", time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), d.Format("2006-01-02"))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("not-a-date", time.UTC)
	assert.Error(t, err)
}
