package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies the fatal failure modes of a scrape run. Extraction
// misses are not errors at all; absent fields degrade to their sentinels.
type ErrorKind string

const (
	KindFetch               ErrorKind = "fetch_failed"
	KindPayloadShape        ErrorKind = "payload_shape"
	KindNavigation          ErrorKind = "navigation_failed"
	KindVerificationTimeout ErrorKind = "verification_timeout"
	KindScrape              ErrorKind = "scrape_failed"
)

// CustomError represents a custom application error
type CustomError struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// NewFetchError reports a non-success status or malformed JSON from the
// answer endpoint.
func NewFetchError(detail string) *CustomError {
	return &CustomError{
		Kind:    KindFetch,
		Code:    http.StatusBadGateway,
		Message: "Answer fetch failed",
		Detail:  detail,
	}
}

// NewPayloadShapeError reports an answer payload missing required keys.
// It is treated as a fetch failure by callers that only branch on fatality.
func NewPayloadShapeError(detail string) *CustomError {
	return &CustomError{
		Kind:    KindPayloadShape,
		Code:    http.StatusBadGateway,
		Message: "Answer payload malformed",
		Detail:  detail,
	}
}

// NewNavigationError reports that the rendering engine failed to load the
// review page.
func NewNavigationError(detail string) *CustomError {
	return &CustomError{
		Kind:    KindNavigation,
		Code:    http.StatusBadGateway,
		Message: "Review page navigation failed",
		Detail:  detail,
	}
}

// NewVerificationTimeoutError reports that the bypass loop exhausted its
// cycle budget while the page was still challenged.
func NewVerificationTimeoutError(detail string) *CustomError {
	return &CustomError{
		Kind:    KindVerificationTimeout,
		Code:    http.StatusGatewayTimeout,
		Message: "Verification wall not cleared",
		Detail:  detail,
	}
}

// NewScrapingError reports a general scraping failure
func NewScrapingError(detail string) *CustomError {
	return &CustomError{
		Kind:    KindScrape,
		Code:    http.StatusUnprocessableEntity,
		Message: "Scraping failed",
		Detail:  detail,
	}
}

func kindOf(err error) (ErrorKind, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// IsFetchError reports whether err is a fetch failure, including the
// payload-shape subtype.
func IsFetchError(err error) bool {
	k, ok := kindOf(err)
	return ok && (k == KindFetch || k == KindPayloadShape)
}

// IsPayloadShapeError reports whether err is specifically a malformed-payload
// failure.
func IsPayloadShapeError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindPayloadShape
}

// IsNavigationError reports whether err is a navigation failure.
func IsNavigationError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNavigation
}

// IsVerificationTimeout reports whether err is a bypass budget exhaustion.
func IsVerificationTimeout(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindVerificationTimeout
}
