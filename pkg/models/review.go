package models

// Hint holds the revealed starter letters. Once set, each field is a single
// uppercase letter; the empty string is the "not found" sentinel.
type Hint struct {
	Consonant string `json:"consonant"`
	Vowel     string `json:"vowel"`
}

// Difficulty is the average-guesses rating extracted from the review page.
// Nil sub-fields mean the corresponding pattern did not match.
type Difficulty struct {
	Score *float64 `json:"score"`
	Max   *float64 `json:"max"`
	Label *string  `json:"label"`
}

// Source identifies the dictionary the definition was attributed to.
type Source struct {
	Name *string `json:"name"`
	URL  string  `json:"url"`
}

// Details carries the dictionary-sourced definitions for the solution word.
type Details struct {
	Definitions []string `json:"definitions"`
	Source      Source   `json:"source"`
}

// HintRecord is the full set of hint metadata scraped from the review page.
// Fields are never overwritten after the first successful classification.
type HintRecord struct {
	Hint       Hint       `json:"hint"`
	Difficulty Difficulty `json:"difficulty"`
	Details    Details    `json:"details"`
}

// ScrapeResult joins the day's answer with its hint metadata. Answer is nil
// when the run failed before the answer fetch completed; a nil answer is
// never paired with populated hints because fatal errors abort the run.
type ScrapeResult struct {
	Answer    *PuzzleAnswer `json:"answer,omitempty"`
	Hints     HintRecord    `json:"hints"`
	ScrapedAt int64         `json:"scrapedAt"` // epoch milliseconds
}
