package nlp

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"dario.cat/mergo"
	"github.com/viterin/vek"
	"gopkg.in/yaml.v3"
)

type TextCatConfig struct {
	Factory string `yaml:"factory"`
	// ExclusiveClasses selects softmax over labels; otherwise each label is
	// scored independently with a sigmoid.
	ExclusiveClasses *bool                `yaml:"exclusive_classes"`
	Labels           []string             `yaml:"labels"`
	Bias             []float64            `yaml:"bias"`
	Weights          map[string][]float64 `yaml:"weights"`
}

var textCatDefaults = TextCatConfig{
	ExclusiveClasses: boolPtr(true),
}

func boolPtr(b bool) *bool { return &b }

// TextCat is a bag-of-words linear classifier. Each distinct lowercased word
// of the document contributes its weight vector once.
type TextCat struct {
	name      string
	exclusive bool
	labels    []string
	bias      []float64
	weights   map[string][]float64
}

func newTextCat(name, _ string, raw []byte, _ *Tokenizer) (Component, error) {
	var cfg TextCatConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid textcat config: %w", err)
	}
	if err := mergo.Merge(&cfg, textCatDefaults); err != nil {
		return nil, err
	}
	return NewTextCat(name, *cfg.ExclusiveClasses, cfg.Labels, cfg.Bias, cfg.Weights)
}

func NewTextCat(
	name string,
	exclusive bool,
	labels []string,
	bias []float64,
	weights map[string][]float64,
) (*TextCat, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("textcat needs at least one label")
	}
	if bias == nil {
		bias = make([]float64, len(labels))
	}
	if len(bias) != len(labels) {
		return nil, fmt.Errorf("bias has %d values for %d labels", len(bias), len(labels))
	}
	normalized := make(map[string][]float64, len(weights))
	for word, w := range weights {
		if len(w) != len(labels) {
			return nil, fmt.Errorf("weights for %q have %d values for %d labels", word, len(w), len(labels))
		}
		key := strings.ToLower(word)
		if existing, ok := normalized[key]; ok {
			vek.Add_Inplace(existing, w)
			continue
		}
		normalized[key] = append([]float64(nil), w...)
	}
	return &TextCat{
		name:      name,
		exclusive: exclusive,
		labels:    append([]string(nil), labels...),
		bias:      append([]float64(nil), bias...),
		weights:   normalized,
	}, nil
}

func (c *TextCat) Name() string { return c.name }

func (c *TextCat) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *TextCat) Apply(ctx context.Context, doc *Doc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scores := c.Score(doc)
	for i, label := range c.labels {
		doc.Cats.Set(label, scores[i])
	}
	return nil
}

// Score returns one score per label, in label order.
func (c *TextCat) Score(doc *Doc) []float64 {
	logits := append([]float64(nil), c.bias...)
	seen := make(map[string]struct{}, len(doc.Tokens))
	for _, t := range doc.Tokens {
		if !isWord(t.Text) {
			continue
		}
		word := strings.ToLower(t.Text)
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		if w, ok := c.weights[word]; ok {
			vek.Add_Inplace(logits, w)
		}
	}

	if c.exclusive {
		return softmax(logits)
	}
	for i, z := range logits {
		logits[i] = 1 / (1 + math.Exp(-z))
	}
	return logits
}

func softmax(logits []float64) []float64 {
	maxLogit := vek.Max(logits)
	out := make([]float64, len(logits))
	for i, z := range logits {
		out[i] = math.Exp(z - maxLogit)
	}
	vek.DivNumber_Inplace(out, vek.Sum(out))
	return out
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
