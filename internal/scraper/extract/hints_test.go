package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/logging"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestHintsExtractsBothCategories(t *testing.T) {
	page := `<html><body>
		<div class="hint-reveal"><button>Give me a consonant</button> R</div>
		<div class="hint-reveal"><button>Give me a vowel</button> A</div>
	</body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Equal(t, "R", hint.Consonant)
	assert.Equal(t, "A", hint.Vowel)
}

func TestHintsFirstMatchWinsPerCategory(t *testing.T) {
	page := `<html><body>
		<div class="reveal"><button>Give me a consonant</button> B</div>
		<div class="reveal"><button>Give me a consonant</button> C</div>
	</body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Equal(t, "B", hint.Consonant, "later consonant blocks must not overwrite the first")
	assert.Empty(t, hint.Vowel)
}

func TestHintsStripsEchoedPrompt(t *testing.T) {
	// Some renderings echo the trigger prompt inside the revealed text.
	page := `<html><body>
		<div class="reveal"><button>Reveal a vowel</button> Reveal a vowel: E!</div>
	</body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Equal(t, "E", hint.Vowel)
}

func TestHintsUppercasesRevealedLetter(t *testing.T) {
	page := `<html><body>
		<details><summary>Give me a consonant</summary> t </details>
	</body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Equal(t, "T", hint.Consonant)
}

func TestHintsMissingBlocksKeepSentinel(t *testing.T) {
	page := `<html><body><p>No reveal widgets today.</p></body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Empty(t, hint.Consonant)
	assert.Empty(t, hint.Vowel)
}

func TestHintsSelectorOrderPrefersRevealClasses(t *testing.T) {
	// A details element also exists, but the reveal-classed blocks come
	// first in the selector order and must win.
	page := `<html><body>
		<div class="word-reveal"><button>Give me a vowel</button> O</div>
		<details><summary>Give me a vowel</summary> U</details>
	</body></html>`

	hint := Hints(doc(t, page), logging.GetGlobalLogger())

	assert.Equal(t, "O", hint.Vowel)
}

func TestRevealedLetterLastAlphabeticWins(t *testing.T) {
	letter, ok := revealedLetter("The letter is R.")
	require.True(t, ok)
	assert.Equal(t, "R", letter)
}

func TestRevealedLetterEmptyInput(t *testing.T) {
	_, ok := revealedLetter("  12345 ")
	assert.False(t, ok)
}
