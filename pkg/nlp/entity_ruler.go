package nlp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/maslahah/nlpviz/pkg/models"
)

const (
	AttrOrth  = "ORTH"
	AttrLower = "LOWER"
)

// Pattern is a phrase to match. Patterns are tokenized with the pipeline
// tokenizer, so "PDI-Perjuangan" is one token while "Joko Widodo" is two.
type Pattern struct {
	Label   string `yaml:"label"   json:"label"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

type EntityRulerConfig struct {
	Factory       string    `yaml:"factory"`
	Attr          string    `yaml:"attr"`
	Labels        []string  `yaml:"labels"`
	OverwriteEnts bool      `yaml:"overwrite_ents"`
	PatternsFile  string    `yaml:"patterns_file"`
	Patterns      []Pattern `yaml:"patterns"`
}

var entityRulerDefaults = EntityRulerConfig{
	Attr:         AttrOrth,
	PatternsFile: "patterns.jsonl",
}

type compiledPattern struct {
	label string
	words []string
}

// EntityRuler recognizes entities by exact phrase match.
type EntityRuler struct {
	name      string
	lower     bool
	overwrite bool
	labels    []string
	// byFirst indexes patterns by their first word, longest first.
	byFirst map[string][]compiledPattern
}

func newEntityRuler(name, dir string, raw []byte, tok *Tokenizer) (Component, error) {
	var cfg EntityRulerConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid entity_ruler config: %w", err)
	}
	if err := mergo.Merge(&cfg, entityRulerDefaults); err != nil {
		return nil, err
	}
	cfg.Attr = strings.ToUpper(cfg.Attr)
	if cfg.Attr != AttrOrth && cfg.Attr != AttrLower {
		return nil, fmt.Errorf("unsupported attr %q", cfg.Attr)
	}

	patterns := cfg.Patterns
	filePatterns, err := readPatternsFile(filepath.Join(dir, cfg.PatternsFile))
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, filePatterns...)

	return NewEntityRuler(name, cfg.Attr == AttrLower, cfg.OverwriteEnts, cfg.Labels, patterns, tok)
}

// NewEntityRuler compiles patterns into a ruler. When labels is empty the
// label set is derived from the patterns.
func NewEntityRuler(
	name string,
	lower, overwrite bool,
	labels []string,
	patterns []Pattern,
	tok *Tokenizer,
) (*EntityRuler, error) {
	r := &EntityRuler{
		name:      name,
		lower:     lower,
		overwrite: overwrite,
		byFirst:   make(map[string][]compiledPattern),
	}

	labelSet := make(map[string]struct{})
	for _, l := range labels {
		labelSet[l] = struct{}{}
	}
	deriveLabels := len(labels) == 0

	for i, p := range patterns {
		if p.Label == "" || strings.TrimSpace(p.Pattern) == "" {
			return nil, fmt.Errorf("pattern %d: label and pattern are required", i)
		}
		if _, ok := labelSet[p.Label]; !ok {
			if !deriveLabels {
				return nil, fmt.Errorf("pattern %d: label %q is not declared", i, p.Label)
			}
			labelSet[p.Label] = struct{}{}
		}
		tokens := tok.Tokenize(p.Pattern)
		words := make([]string, len(tokens))
		for j, t := range tokens {
			words[j] = r.norm(t.Text)
		}
		r.byFirst[words[0]] = append(r.byFirst[words[0]], compiledPattern{
			label: p.Label,
			words: words,
		})
	}

	for first := range r.byFirst {
		candidates := r.byFirst[first]
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].words) > len(candidates[j].words)
		})
	}

	r.labels = make([]string, 0, len(labelSet))
	for l := range labelSet {
		r.labels = append(r.labels, l)
	}
	sort.Strings(r.labels)

	return r, nil
}

func (r *EntityRuler) Name() string { return r.name }

func (r *EntityRuler) Labels() []string {
	return append([]string(nil), r.labels...)
}

func (r *EntityRuler) norm(s string) string {
	if r.lower {
		return strings.ToLower(s)
	}
	return s
}

// Apply adds the longest non-overlapping matches, scanning left to right.
// Matches that overlap entities set by earlier components are dropped unless
// the ruler overwrites entities.
func (r *EntityRuler) Apply(ctx context.Context, doc *Doc) error {
	var matches []models.EntitySpan
	for i := 0; i < len(doc.Tokens); {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, ok := r.matchAt(doc, i)
		if !ok {
			i++
			continue
		}
		matches = append(matches, m)
		i = m.End
	}

	doc.Ents = mergeEnts(doc.Ents, matches, r.overwrite)
	return nil
}

func (r *EntityRuler) matchAt(doc *Doc, i int) (models.EntitySpan, bool) {
	for _, p := range r.byFirst[r.norm(doc.Tokens[i].Text)] {
		end := i + len(p.words)
		if end > len(doc.Tokens) {
			continue
		}
		matched := true
		for k := 1; k < len(p.words); k++ {
			if r.norm(doc.Tokens[i+k].Text) != p.words[k] {
				matched = false
				break
			}
		}
		if matched {
			return doc.Span(i, end, p.label), true
		}
	}
	return models.EntitySpan{}, false
}

func overlaps(a, b models.EntitySpan) bool {
	return a.Start < b.End && b.Start < a.End
}

// mergeEnts combines existing and new entities, resolving overlaps in favour
// of the new ones when overwrite is set, and sorts the result by position.
func mergeEnts(existing, added []models.EntitySpan, overwrite bool) []models.EntitySpan {
	var keep, winners []models.EntitySpan
	if overwrite {
		winners = added
		for _, e := range existing {
			if !overlapsAny(e, added) {
				keep = append(keep, e)
			}
		}
	} else {
		keep = existing
		for _, a := range added {
			if !overlapsAny(a, existing) {
				winners = append(winners, a)
			}
		}
	}

	merged := make([]models.EntitySpan, 0, len(keep)+len(winners))
	merged = append(merged, keep...)
	merged = append(merged, winners...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	return merged
}

func overlapsAny(e models.EntitySpan, others []models.EntitySpan) bool {
	for _, o := range others {
		if overlaps(e, o) {
			return true
		}
	}
	return false
}

// readPatternsFile reads JSON-lines patterns. A missing file is not an error.
func readPatternsFile(path string) ([]Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []Pattern
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var p Pattern
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, scanner.Err()
}
