package models

import "time"

// LetterStatus describes the state of a single letter on the solved board.
// The answer endpoint always reports a fully solved puzzle, so the only
// status in play is "correct".
type LetterStatus string

const (
	LetterCorrect LetterStatus = "correct"
)

// Letter is a single character of the day's solution.
type Letter struct {
	Char   string       `json:"char"`
	Status LetterStatus `json:"status"`
}

// PuzzleAnswer is the canonical answer record for one day's puzzle.
// Created once per fetch and immutable afterwards.
type PuzzleAnswer struct {
	ID              int       `json:"id"`
	Solution        string    `json:"solution"`
	DaysSinceLaunch int       `json:"days_since_launch"`
	PrintDate       string    `json:"print_date"`
	Editor          string    `json:"editor,omitempty"`
	Date            time.Time `json:"date"`
	Letters         []Letter  `json:"letters"`
}
