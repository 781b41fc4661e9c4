package nlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/maslahah/nlpviz/pkg/models"
)

// Doc is the working document passed through the components of a pipeline.
type Doc struct {
	*models.Document
	runes []rune
}

func newDoc(text string) *Doc {
	return &Doc{Document: models.NewDocument(text), runes: []rune(text)}
}

// Span builds an entity span over the tokens [start, end).
func (d *Doc) Span(start, end int, label string) models.EntitySpan {
	startChar := d.Tokens[start].Start
	endChar := d.Tokens[end-1].End
	return models.EntitySpan{
		Text:      string(d.runes[startChar:endChar]),
		Label:     label,
		Start:     start,
		End:       end,
		StartChar: startChar,
		EndChar:   endChar,
	}
}

// Component is one processing stage of a pipeline.
type Component interface {
	Name() string
	Apply(ctx context.Context, doc *Doc) error
}

// Labeler is implemented by components that predict a fixed label set.
type Labeler interface {
	Labels() []string
}

type capability int

const (
	capNER capability = iota
	capEntityLinker
	capTextCat
)

// factory builds a component from its directory. The pipeline tokenizer is
// passed so that pattern-based components tokenize like the documents they
// match.
type factory struct {
	provides capability
	build    func(name, dir string, raw []byte, tok *Tokenizer) (Component, error)
}

var factories = map[string]factory{
	"entity_ruler":  {provides: capNER, build: newEntityRuler},
	"entity_linker": {provides: capEntityLinker, build: newEntityLinker},
	"textcat":       {provides: capTextCat, build: newTextCat},
}

type componentHeader struct {
	Factory string `yaml:"factory"`
}

// buildComponent reads <dir>/config.yaml and dispatches on its factory key.
func buildComponent(name, dir string, tok *Tokenizer) (Component, capability, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, 0, fmt.Errorf("component %s: %w", name, err)
	}

	var header componentHeader
	if err := yaml.Unmarshal(raw, &header); err != nil {
		return nil, 0, fmt.Errorf("component %s: invalid config: %w", name, err)
	}

	f, ok := factories[header.Factory]
	if !ok {
		return nil, 0, fmt.Errorf("component %s: unknown factory %q", name, header.Factory)
	}

	c, err := f.build(name, dir, raw, tok)
	if err != nil {
		return nil, 0, fmt.Errorf("component %s: %w", name, err)
	}
	return c, f.provides, nil
}
