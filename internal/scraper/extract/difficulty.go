package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wordlewatch/internal/logging/types"
	"wordlewatch/pkg/models"
)

var (
	scoreRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+guesses out of\s+(\d+(?:\.\d+)?)`)
	labelRe = regexp.MustCompile(`,\s*or\s+([^.!?]+)`)
)

// Difficulty extracts the average-guesses rating from the first emphasized
// text node mentioning "guesses". Sub-fields that fail to match stay nil.
func Difficulty(doc *goquery.Document, logger types.Logger) models.Difficulty {
	var text string

	doc.Find("b, strong, em").EachWithBreak(func(i int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if strings.Contains(strings.ToLower(t), "guesses") {
			text = t
			return false
		}
		return true
	})

	if text == "" {
		logger.Warn("No difficulty text found on review page")
		return models.Difficulty{}
	}

	return ParseDifficulty(text, logger)
}

// ParseDifficulty applies the fixed-shape patterns to a difficulty sentence
// such as "3.2 guesses out of 6, or Hard."
func ParseDifficulty(text string, logger types.Logger) models.Difficulty {
	difficulty := models.Difficulty{}

	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			difficulty.Score = &score
		}
		if max, err := strconv.ParseFloat(m[2], 64); err == nil {
			difficulty.Max = &max
		}
	} else {
		logger.Debug("Difficulty score pattern did not match", map[string]interface{}{"text": text})
	}

	if m := labelRe.FindStringSubmatch(text); m != nil {
		label := strings.TrimRight(strings.TrimSpace(m[1]), ".,!? ")
		if label != "" {
			difficulty.Label = &label
		}
	}

	return difficulty
}
