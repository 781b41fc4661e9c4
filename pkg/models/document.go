package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Token is a single token of a processed text. Start and End are character
// (code point) offsets into Document.Text.
type Token struct {
	ID    int    `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// EntitySpan is a labeled run of tokens. Start and End are token indices
// (End exclusive); StartChar and EndChar are character offsets.
type EntitySpan struct {
	Text      string `json:"text"`
	Label     string `json:"label"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	KBID      string `json:"kb_id,omitempty"`
}

// Categories maps classification labels to scores, keeping the order in
// which the classifier produced them.
type Categories = orderedmap.OrderedMap[string, float64]

// NewCategories returns an empty Categories map.
func NewCategories() *Categories {
	return orderedmap.New[string, float64]()
}

// Document is the annotated output of running a pipeline over a text.
type Document struct {
	Text   string       `json:"text"`
	Tokens []Token      `json:"tokens"`
	Ents   []EntitySpan `json:"ents"`
	Cats   *Categories  `json:"cats"`
}

// NewDocument returns an empty document for text.
func NewDocument(text string) *Document {
	return &Document{
		Text:   text,
		Tokens: []Token{},
		Ents:   []EntitySpan{},
		Cats:   NewCategories(),
	}
}

// CategoryScore is a single label/score pair.
type CategoryScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// CategoryList returns the categories in document order.
func (d *Document) CategoryList() []CategoryScore {
	if d.Cats == nil {
		return []CategoryScore{}
	}
	list := make([]CategoryScore, 0, d.Cats.Len())
	for pair := d.Cats.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, CategoryScore{Label: pair.Key, Score: pair.Value})
	}
	return list
}
