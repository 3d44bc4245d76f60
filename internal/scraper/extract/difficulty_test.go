package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/logging"
)

func TestParseDifficultyFullSentence(t *testing.T) {
	d := ParseDifficulty("3.2 guesses out of 4, or Hard.", logging.GetGlobalLogger())

	require.NotNil(t, d.Score)
	require.NotNil(t, d.Max)
	require.NotNil(t, d.Label)
	assert.Equal(t, 3.2, *d.Score)
	assert.Equal(t, 4.0, *d.Max)
	assert.Equal(t, "Hard", *d.Label)
}

func TestParseDifficultyScoreWithoutLabel(t *testing.T) {
	d := ParseDifficulty("This puzzle took 4.1 guesses out of 6 on average.", logging.GetGlobalLogger())

	require.NotNil(t, d.Score)
	require.NotNil(t, d.Max)
	assert.Equal(t, 4.1, *d.Score)
	assert.Equal(t, 6.0, *d.Max)
	assert.Nil(t, d.Label)
}

func TestParseDifficultyIntegerScore(t *testing.T) {
	d := ParseDifficulty("4 guesses out of 6, or moderately challenging!", logging.GetGlobalLogger())

	require.NotNil(t, d.Score)
	assert.Equal(t, 4.0, *d.Score)
	require.NotNil(t, d.Label)
	assert.Equal(t, "moderately challenging", *d.Label)
}

func TestParseDifficultyNoMatch(t *testing.T) {
	d := ParseDifficulty("An unusually wordy introduction.", logging.GetGlobalLogger())

	assert.Nil(t, d.Score)
	assert.Nil(t, d.Max)
	assert.Nil(t, d.Label)
}

func TestDifficultyScansEmphasizedNodes(t *testing.T) {
	page := `<html><body>
		<p><em>Welcome back.</em></p>
		<p>Solvers needed <strong>3.8 guesses out of 6, or Medium.</strong></p>
	</body></html>`

	d := Difficulty(doc(t, page), logging.GetGlobalLogger())

	require.NotNil(t, d.Score)
	assert.Equal(t, 3.8, *d.Score)
	require.NotNil(t, d.Label)
	assert.Equal(t, "Medium", *d.Label)
}

func TestDifficultyMissingKeepsNilSentinels(t *testing.T) {
	page := `<html><body><p>No ratings today.</p></body></html>`

	d := Difficulty(doc(t, page), logging.GetGlobalLogger())

	assert.Nil(t, d.Score)
	assert.Nil(t, d.Max)
	assert.Nil(t, d.Label)
}
