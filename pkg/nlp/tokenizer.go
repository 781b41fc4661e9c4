package nlp

import (
	"unicode"

	"github.com/maslahah/nlpviz/pkg/models"
)

// TokenizerConfig is read from the optional tokenizer.yaml of a pipeline.
type TokenizerConfig struct {
	// SpecialCases are kept as single tokens even when they start or end
	// with punctuation.
	SpecialCases []string `yaml:"special_cases"`
}

// Tokenizer splits text on whitespace and then peels leading and trailing
// punctuation into tokens of their own. Punctuation inside a word (hyphens,
// apostrophes) stays in the word.
type Tokenizer struct {
	specialCases map[string]struct{}
}

func NewTokenizer(cfg TokenizerConfig) *Tokenizer {
	t := &Tokenizer{specialCases: make(map[string]struct{}, len(cfg.SpecialCases))}
	for _, s := range cfg.SpecialCases {
		t.specialCases[s] = struct{}{}
	}
	return t
}

// Tokenize returns the tokens of text with character offsets.
func (t *Tokenizer) Tokenize(text string) []models.Token {
	return t.tokenizeRunes([]rune(text))
}

func (t *Tokenizer) tokenizeRunes(runes []rune) []models.Token {
	tokens := make([]models.Token, 0, len(runes)/4)
	emit := func(start, end int) {
		tokens = append(tokens, models.Token{
			ID:    len(tokens),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
	}

	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			t.splitChunk(runes, start, i, emit)
			start = -1
		}
	}
	return tokens
}

// splitChunk tokenizes the whitespace-free run runes[start:end].
func (t *Tokenizer) splitChunk(runes []rune, start, end int, emit func(int, int)) {
	var suffixes []int
	for start < end {
		if _, ok := t.specialCases[string(runes[start:end])]; ok {
			break
		}
		if end-start > 1 && isEdgePunct(runes[start]) {
			emit(start, start+1)
			start++
			continue
		}
		if end-start > 1 && isEdgePunct(runes[end-1]) {
			suffixes = append(suffixes, end-1)
			end--
			continue
		}
		break
	}
	if start < end {
		emit(start, end)
	}
	for i := len(suffixes) - 1; i >= 0; i-- {
		emit(suffixes[i], suffixes[i]+1)
	}
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
