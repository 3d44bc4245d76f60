// Package extract pulls typed hint fields out of the review page's loosely
// structured markup. Every query returns an explicit present/absent result;
// a missing field is degraded output, never an error.
package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"wordlewatch/internal/logging/types"
	"wordlewatch/pkg/models"
)

// revealSelectors locate the repeated reveal elements, tried in order; the
// first selector that yields any blocks wins.
var revealSelectors = []string{
	"[class*='reveal']",
	"details",
	"[data-testid*='reveal']",
	"button[aria-expanded]",
}

// promptPhrases are echoed trigger prompts stripped from revealed letter
// text before the answer letter is picked out.
var promptPhrases = []string{
	"give me a consonant",
	"give me a vowel",
	"reveal a consonant",
	"reveal a vowel",
}

// revealBlock is one reveal element split into its trigger label and the
// disclosed text.
type revealBlock struct {
	label    string
	revealed string
}

// Hints classifies the page's reveal blocks into consonant and vowel
// letters. Classification is first-match-wins per category; categories with
// no matching block keep the empty-string sentinel.
func Hints(doc *goquery.Document, logger types.Logger) models.Hint {
	hint := models.Hint{}

	for _, block := range revealBlocks(doc) {
		label := strings.ToLower(block.label)

		switch {
		case strings.Contains(label, "consonant"):
			if hint.Consonant != "" {
				continue
			}
			if letter, ok := revealedLetter(block.revealed); ok {
				hint.Consonant = letter
				logger.Debug("Extracted consonant hint", map[string]interface{}{"letter": letter})
			}
		case strings.Contains(label, "vowel"):
			if hint.Vowel != "" {
				continue
			}
			if letter, ok := revealedLetter(block.revealed); ok {
				hint.Vowel = letter
				logger.Debug("Extracted vowel hint", map[string]interface{}{"letter": letter})
			}
		}
	}

	if hint.Consonant == "" {
		logger.Warn("No consonant reveal block found")
	}
	if hint.Vowel == "" {
		logger.Warn("No vowel reveal block found")
	}

	return hint
}

// revealBlocks collects every reveal element on the page, preserving
// document order.
func revealBlocks(doc *goquery.Document) []revealBlock {
	for _, selector := range revealSelectors {
		var blocks []revealBlock

		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			label := triggerLabel(s)
			if label == "" {
				return
			}

			revealed := strings.TrimSpace(s.Text())
			// The trigger label is part of the block text; drop it so only
			// the disclosed content remains.
			revealed = strings.TrimSpace(strings.Replace(revealed, label, "", 1))

			blocks = append(blocks, revealBlock{label: label, revealed: revealed})
		})

		if len(blocks) > 0 {
			return blocks
		}
	}

	return nil
}

// triggerLabel finds the clickable prompt text inside a reveal block.
func triggerLabel(s *goquery.Selection) string {
	for _, sel := range []string{"button", "summary", "[class*='trigger']", "[class*='button']"} {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	// Blocks that are themselves the trigger (e.g. aria-expanded buttons)
	// use their first line as the label.
	if line, _, found := strings.Cut(strings.TrimSpace(s.Text()), "\n"); found {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(s.Text())
}

// revealedLetter cleans disclosed text down to the single answer letter.
// The echoed prompt phrase is stripped first, then non-alphabetic edges;
// the last surviving alphabetic character wins, falling back to the first
// alphabetic character of the raw text when trimming leaves nothing.
func revealedLetter(revealed string) (string, bool) {
	cleaned := strings.TrimSpace(revealed)

	lower := strings.ToLower(cleaned)
	for _, phrase := range promptPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			cleaned = cleaned[:idx] + cleaned[idx+len(phrase):]
			lower = strings.ToLower(cleaned)
		}
	}

	cleaned = strings.TrimFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	if last, ok := lastLetter(cleaned); ok {
		return strings.ToUpper(last), true
	}
	if first, ok := firstLetter(revealed); ok {
		return strings.ToUpper(first), true
	}
	return "", false
}

func lastLetter(s string) (string, bool) {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsLetter(runes[i]) {
			return string(runes[i]), true
		}
	}
	return "", false
}

func firstLetter(s string) (string, bool) {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return string(r), true
		}
	}
	return "", false
}
