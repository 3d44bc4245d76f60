package answers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/config"
	"wordlewatch/pkg/models"
	"wordlewatch/pkg/utils"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Answers.BaseURL = baseURL
	cfg.Answers.Timeout = 5 * time.Second
	return NewClient(cfg)
}

func TestFetchParsesAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/2026-08-28.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 2641,
			"solution": "crane",
			"print_date": "2026-08-28",
			"days_since_launch": 1896,
			"editor": "Tracy Bennett"
		}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	date, _ := time.Parse("2006-01-02", "2026-08-28")

	answer, err := client.Fetch(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, 2641, answer.ID)
	assert.Equal(t, "CRANE", answer.Solution)
	assert.Equal(t, 1896, answer.DaysSinceLaunch)
	assert.Equal(t, "2026-08-28", answer.PrintDate)
	assert.Equal(t, "Tracy Bennett", answer.Editor)
	assert.Equal(t, "2026-08-28", answer.Date.Format("2006-01-02"))

	require.Len(t, answer.Letters, 5)
	for i, r := range "CRANE" {
		assert.Equal(t, string(r), answer.Letters[i].Char)
		assert.Equal(t, models.LetterCorrect, answer.Letters[i].Status)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Fetch(context.Background(), time.Now())

	require.Error(t, err)
	assert.True(t, utils.IsFetchError(err))
	assert.False(t, utils.IsPayloadShapeError(err))
}

func TestFetchMissingRequiredField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// solution is absent
		fmt.Fprint(w, `{"id": 2641, "print_date": "2026-08-28", "days_since_launch": 1896}`)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Fetch(context.Background(), time.Now())

	require.Error(t, err)
	assert.True(t, utils.IsPayloadShapeError(err))
	// Payload-shape failures are a fetch-failure subtype
	assert.True(t, utils.IsFetchError(err))
}

func TestFetchMalformedPrintDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 1, "solution": "crane", "print_date": "August 28", "days_since_launch": 1896}`)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.Fetch(context.Background(), time.Now())

	require.Error(t, err)
	assert.True(t, utils.IsPayloadShapeError(err))
}

func TestFetchUnreachableEndpoint(t *testing.T) {
	client := testClient("http://127.0.0.1:1")

	_, err := client.Fetch(context.Background(), time.Now())

	require.Error(t, err)
	assert.True(t, utils.IsFetchError(err))
}
