package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"wordlewatch/internal/logging/types"
	"wordlewatch/pkg/models"
)

// definitionTemplates are the lead-in phrases that introduce the word's
// definition, tried strictly in order; the first template that matches a
// paragraph wins and later templates are never consulted.
var definitionTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?i)it could refer to\s+(.+)`),
	regexp.MustCompile(`(?i)it means\s+(.+)`),
	regexp.MustCompile(`(?i)it could mean\s+(.+)`),
}

// quotedRe matches curly-quote delimited spans; straight quotes are
// accepted too since the page flips between them.
var quotedRe = regexp.MustCompile(`[“"]([^”"]+)[”"]`)

const sourceLeadIn = "according to"

// Definition extracts the dictionary attribution and quoted definitions
// from the review page's paragraphs. Degraded results (nil name, nil
// definitions) are expected output, not errors.
func Definition(doc *goquery.Document, logger types.Logger) models.Details {
	details := models.Details{}

	details.Source = extractSource(doc)
	if details.Source.Name == nil {
		logger.Warn("No dictionary attribution found")
	}

	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		defs := ParseDefinitions(strings.TrimSpace(s.Text()))
		if defs != nil {
			details.Definitions = defs
			logger.Debug("Extracted definitions", map[string]interface{}{"count": len(defs)})
			return false
		}
		return true
	})

	if details.Definitions == nil {
		logger.Warn("No definition paragraph matched any template")
	}

	return details
}

// extractSource finds the first anchor whose text contains "According to"
// and splits it into the attribution name and link.
func extractSource(doc *goquery.Document) models.Source {
	source := models.Source{}

	doc.Find("a").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.Contains(strings.ToLower(text), sourceLeadIn) {
			return true
		}

		name := text
		if idx := strings.Index(name, ","); idx >= 0 {
			name = name[:idx]
		}
		if idx := strings.Index(strings.ToLower(name), sourceLeadIn); idx >= 0 {
			name = name[idx+len(sourceLeadIn):]
		}
		name = strings.Trim(name, " \t.")

		if name != "" {
			source.Name = &name
		}
		source.URL, _ = s.Attr("href")
		return false
	})

	return source
}

// ParseDefinitions applies the ordered lead-in templates to paragraph text
// and splits the matched span into individually quoted definitions. Returns
// nil when no template matches or the match carries no quoted span.
func ParseDefinitions(text string) []string {
	for _, template := range definitionTemplates {
		m := template.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		matches := quotedRe.FindAllStringSubmatch(m[1], -1)
		if matches == nil {
			return nil
		}

		definitions := make([]string, 0, len(matches))
		for _, q := range matches {
			if def := trimDefinition(q[1]); def != "" {
				definitions = append(definitions, def)
			}
		}
		if len(definitions) == 0 {
			return nil
		}
		return definitions
	}

	return nil
}

// trimDefinition strips quote and punctuation residue until the entry ends
// in an alphabetic character.
func trimDefinition(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
