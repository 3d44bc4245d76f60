package utils

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsFetchError(NewFetchError("boom")))
	assert.True(t, IsFetchError(NewPayloadShapeError("missing key")))
	assert.True(t, IsPayloadShapeError(NewPayloadShapeError("missing key")))
	assert.False(t, IsPayloadShapeError(NewFetchError("boom")))
	assert.True(t, IsNavigationError(NewNavigationError("dns")))
	assert.True(t, IsVerificationTimeout(NewVerificationTimeoutError("still walled")))
	assert.False(t, IsVerificationTimeout(NewScrapingError("parse")))
}

func TestPredicatesUnwrapWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("run failed: %w", NewVerificationTimeoutError("still walled"))

	assert.True(t, IsVerificationTimeout(wrapped))
	assert.False(t, IsFetchError(wrapped))
}

func TestPredicatesRejectPlainErrors(t *testing.T) {
	err := fmt.Errorf("some plain error")

	assert.False(t, IsFetchError(err))
	assert.False(t, IsNavigationError(err))
	assert.False(t, IsVerificationTimeout(err))
}

func TestErrorMessageIncludesDetail(t *testing.T) {
	err := NewFetchError("status 502 from upstream")

	assert.Contains(t, err.Error(), "status 502 from upstream")
	assert.Equal(t, http.StatusBadGateway, err.Code)
}
