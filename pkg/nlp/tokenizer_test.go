package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maslahah/nlpviz/pkg/models"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		config   TokenizerConfig
		text     string
		expected []models.Token
	}{
		{
			name: "edge punctuation is split, inner hyphen kept",
			text: "Partai PDI-Perjuangan.",
			expected: []models.Token{
				{ID: 0, Start: 0, End: 6, Text: "Partai"},
				{ID: 1, Start: 7, End: 21, Text: "PDI-Perjuangan"},
				{ID: 2, Start: 21, End: 22, Text: "."},
			},
		},
		{
			name: "offsets count code points",
			text: "Café “Jakarta”!",
			expected: []models.Token{
				{ID: 0, Start: 0, End: 4, Text: "Café"},
				{ID: 1, Start: 5, End: 6, Text: "“"},
				{ID: 2, Start: 6, End: 13, Text: "Jakarta"},
				{ID: 3, Start: 13, End: 14, Text: "”"},
				{ID: 4, Start: 14, End: 15, Text: "!"},
			},
		},
		{
			name:   "special cases stay whole",
			config: TokenizerConfig{SpecialCases: []string{"Dr."}},
			text:   "Dr. Budi",
			expected: []models.Token{
				{ID: 0, Start: 0, End: 3, Text: "Dr."},
				{ID: 1, Start: 4, End: 8, Text: "Budi"},
			},
		},
		{
			name: "without a special case the period splits",
			text: "Dr. Budi",
			expected: []models.Token{
				{ID: 0, Start: 0, End: 2, Text: "Dr"},
				{ID: 1, Start: 2, End: 3, Text: "."},
				{ID: 2, Start: 4, End: 8, Text: "Budi"},
			},
		},
		{
			name: "newlines and repeated spaces",
			text: "  satu\n\ndua  ",
			expected: []models.Token{
				{ID: 0, Start: 2, End: 6, Text: "satu"},
				{ID: 1, Start: 8, End: 11, Text: "dua"},
			},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []models.Token{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer(tt.config)
			assert.Equal(t, tt.expected, tok.Tokenize(tt.text))
		})
	}
}

func TestTokenizeOffsetsRecoverText(t *testing.T) {
	text := "Joko Widodo adalah presiden dari Partai PDI-Perjuangan. Beliau beristana di Jakarta."
	runes := []rune(text)
	for _, token := range NewTokenizer(TokenizerConfig{}).Tokenize(text) {
		assert.Equal(t, token.Text, string(runes[token.Start:token.End]))
	}
}
