package answers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/pkg/models"
	"wordlewatch/pkg/utils"
)

// answerPayload mirrors the daily answer endpoint's JSON body. Fields are
// pointers so a missing key can be told apart from a zero value.
type answerPayload struct {
	ID              *int    `json:"id"`
	Solution        *string `json:"solution"`
	PrintDate       *string `json:"print_date"`
	DaysSinceLaunch *int    `json:"days_since_launch"`
	Editor          string  `json:"editor"`
}

// Client fetches the published answer for a given puzzle date.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetTimeout(cfg.Answers.Timeout).
		SetHeader("User-Agent", cfg.Scraper.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		baseURL: strings.TrimRight(cfg.Answers.BaseURL, "/"),
	}
}

// Fetch retrieves and validates the answer for date, returning the parsed
// record with per-letter status entries populated.
func (c *Client) Fetch(ctx context.Context, date time.Time) (*models.PuzzleAnswer, error) {
	logger := logging.GetGlobalLogger()
	url := fmt.Sprintf("%s/v2/%s.json", c.baseURL, date.Format("2006-01-02"))

	logger.Debug("Fetching daily answer", map[string]interface{}{"url": url})

	var payload answerPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(url)
	if err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("answer request failed: %v", err))
	}
	if !resp.IsSuccess() {
		return nil, utils.NewFetchError(fmt.Sprintf("answer endpoint returned status %d for %s", resp.StatusCode(), url))
	}

	if payload.ID == nil || payload.Solution == nil || payload.PrintDate == nil || payload.DaysSinceLaunch == nil {
		return nil, utils.NewPayloadShapeError(fmt.Sprintf("answer payload for %s is missing required fields", date.Format("2006-01-02")))
	}

	printDate, err := time.Parse("2006-01-02", *payload.PrintDate)
	if err != nil {
		return nil, utils.NewPayloadShapeError(fmt.Sprintf("answer payload has malformed print_date %q", *payload.PrintDate))
	}

	solution := strings.ToUpper(strings.TrimSpace(*payload.Solution))
	letters := make([]models.Letter, 0, len(solution))
	for _, r := range solution {
		letters = append(letters, models.Letter{
			Char:   string(r),
			Status: models.LetterCorrect,
		})
	}

	answer := &models.PuzzleAnswer{
		ID:              *payload.ID,
		Solution:        solution,
		DaysSinceLaunch: *payload.DaysSinceLaunch,
		PrintDate:       *payload.PrintDate,
		Editor:          payload.Editor,
		Date:            printDate,
		Letters:         letters,
	}

	logger.Info("Fetched daily answer", map[string]interface{}{
		"date":              answer.PrintDate,
		"days_since_launch": answer.DaysSinceLaunch,
	})

	return answer, nil
}
