package review

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/answers"
	"wordlewatch/internal/config"
	"wordlewatch/internal/scraper"
	"wordlewatch/pkg/models"
	"wordlewatch/pkg/utils"
)

const reviewPage = `<html><body>
	<p><a href="https://www.merriam-webster.com/dictionary/crane">According to Webster,</a>
	it could refer to "a large wading bird" or "a lifting machine."</p>
	<p>Solvers averaged <strong>3.8 guesses out of 6, or Medium.</strong></p>
	<div class="hint-reveal"><button>Give me a consonant</button> R</div>
	<div class="hint-reveal"><button>Give me a vowel</button> A</div>
</body></html>`

const challengedPage = `<html><body><p>Verifying you are human. This may take a few seconds.</p></body></html>`

// fakeEngine hands out a scripted session for every render.
type fakeEngine struct {
	session  *fakePage
	rendered []string
}

func (f *fakeEngine) Render(ctx context.Context, url string) (scraper.PageSession, error) {
	f.rendered = append(f.rendered, url)
	return f.session, nil
}

func (f *fakeEngine) Cleanup()        {}
func (f *fakeEngine) IsHealthy() bool { return true }

// fakePage serves html; test text polls walk through texts like a page whose
// content changes as the wall clears.
type fakePage struct {
	html  string
	texts []string
	polls int
}

func (f *fakePage) Text() (string, error) {
	i := f.polls
	if i >= len(f.texts) {
		i = len(f.texts) - 1
	}
	f.polls++
	return f.texts[i], nil
}

func (f *fakePage) HTML() (string, error)                  { return f.html, nil }
func (f *fakePage) Scroll(d scraper.ScrollDirection) error { return nil }
func (f *fakePage) Close()                                 {}

type captureSink struct {
	mu      sync.Mutex
	results []*models.ScrapeResult
	err     error
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Write(ctx context.Context, result *models.ScrapeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, result)
	return nil
}

func pageText(t *testing.T, html string) string {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d.Text()
}

func answerServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 2641,
			"solution": "crane",
			"print_date": "2026-08-28",
			"days_since_launch": 1896,
			"editor": "Tracy Bennett"
		}`)
	}))
}

func testConfig(answersURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Answers.BaseURL = answersURL
	cfg.Answers.Timeout = 5 * time.Second
	cfg.Review.BaseURL = "https://www.nytimes.com"
	cfg.Review.Section = "crosswords"
	cfg.Scraper.Bypass.MaxCycles = 3
	cfg.Scraper.Bypass.SettleDelay = time.Millisecond
	return cfg
}

func TestPipelineRunHappyPath(t *testing.T) {
	server := answerServer(t)
	defer server.Close()

	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{
		html:  reviewPage,
		texts: []string{pageText(t, reviewPage)},
	}}
	sink := &captureSink{}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)
	pipeline.AddSink(sink)

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	result, err := pipeline.Run(context.Background(), date)

	require.NoError(t, err)
	require.NotNil(t, result.Answer)
	assert.Equal(t, "CRANE", result.Answer.Solution)
	assert.Equal(t, "R", result.Hints.Hint.Consonant)
	assert.Equal(t, "A", result.Hints.Hint.Vowel)
	require.NotNil(t, result.Hints.Difficulty.Score)
	assert.Equal(t, 3.8, *result.Hints.Difficulty.Score)
	require.Len(t, result.Hints.Details.Definitions, 2)
	assert.NotZero(t, result.ScrapedAt)

	require.Len(t, engine.rendered, 1)
	assert.Equal(t, "https://www.nytimes.com/2026/08/27/crosswords/wordle-review-1896.html", engine.rendered[0])

	require.Len(t, sink.results, 1)
	assert.Same(t, result, sink.results[0])
}

func TestPipelineRunClearsWallBeforeExtraction(t *testing.T) {
	server := answerServer(t)
	defer server.Close()

	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{
		html: reviewPage,
		texts: []string{
			pageText(t, challengedPage),
			pageText(t, reviewPage),
		},
	}}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	result, err := pipeline.Run(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, "R", result.Hints.Hint.Consonant)
}

func TestPipelineRunVerificationTimeout(t *testing.T) {
	server := answerServer(t)
	defer server.Close()

	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{
		html:  challengedPage,
		texts: []string{pageText(t, challengedPage)},
	}}
	sink := &captureSink{}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)
	pipeline.AddSink(sink)

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	_, err := pipeline.Run(context.Background(), date)

	require.Error(t, err)
	assert.True(t, utils.IsVerificationTimeout(err))
	assert.Empty(t, sink.results, "failed scrapes must not reach sinks")
}

func TestPipelineRunAnswerFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{html: reviewPage, texts: []string{""}}}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)

	_, err := pipeline.Run(context.Background(), time.Now())

	require.Error(t, err)
	assert.True(t, utils.IsFetchError(err))
	assert.Empty(t, engine.rendered, "fetch failures must short-circuit before rendering")
}

func TestPipelineRunDegradedExtraction(t *testing.T) {
	server := answerServer(t)
	defer server.Close()

	bare := `<html><body><p>A short note with no hints at all.</p></body></html>`
	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{
		html:  bare,
		texts: []string{pageText(t, bare)},
	}}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	result, err := pipeline.Run(context.Background(), date)

	require.NoError(t, err, "extraction misses degrade, they do not fail the run")
	assert.Empty(t, result.Hints.Hint.Consonant)
	assert.Empty(t, result.Hints.Hint.Vowel)
	assert.Nil(t, result.Hints.Difficulty.Score)
	assert.Nil(t, result.Hints.Details.Definitions)
}

func TestPipelineSinkFailureDoesNotFailRun(t *testing.T) {
	server := answerServer(t)
	defer server.Close()

	cfg := testConfig(server.URL)
	engine := &fakeEngine{session: &fakePage{
		html:  reviewPage,
		texts: []string{pageText(t, reviewPage)},
	}}
	failing := &captureSink{err: fmt.Errorf("sink down")}
	working := &captureSink{}

	pipeline := NewPipeline(cfg, answers.NewClient(cfg), engine)
	pipeline.AddSink(failing)
	pipeline.AddSink(working)

	date, _ := time.Parse("2006-01-02", "2026-08-28")
	_, err := pipeline.Run(context.Background(), date)

	require.NoError(t, err)
	assert.Len(t, working.results, 1, "later sinks still run after an earlier sink fails")
}
