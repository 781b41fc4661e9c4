package nlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/models"
)

var log = internal.GetLogger()

var _ models.Pipeline = &Pipeline{}

var ErrInvalidUTF8 = errors.New("text is not valid UTF-8")

// Pipeline is a tokenizer followed by an ordered list of components, loaded
// from a pipeline directory.
type Pipeline struct {
	id           string
	dir          string
	meta         models.ModelMeta
	tokenizer    *Tokenizer
	components   []Component
	capabilities models.Capabilities
	entityLabels []string
}

// Load reads the pipeline in dir. Failures are returned as *models.LoadError.
//
// The directory layout is:
//
//	meta.json             pipeline metadata, "pipeline" lists component names
//	tokenizer.yaml        optional tokenizer settings
//	<component>/config.yaml
func Load(ctx context.Context, dir string) (*Pipeline, error) {
	id := filepath.Base(dir)
	p, err := load(ctx, id, dir)
	if err != nil {
		return nil, models.NewLoadError(id, dir, err)
	}
	return p, nil
}

func load(ctx context.Context, id, dir string) (*Pipeline, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	rawMeta, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return nil, err
	}
	meta, err := ParseMeta(rawMeta)
	if err != nil {
		return nil, err
	}
	if err := warnIfIncompatible(meta); err != nil {
		return nil, err
	}

	tokCfg, err := readTokenizerConfig(filepath.Join(dir, "tokenizer.yaml"))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		id:           id,
		dir:          dir,
		meta:         meta,
		tokenizer:    NewTokenizer(tokCfg),
		capabilities: models.Capabilities{Tokenizer: true},
	}

	seen := make(map[string]struct{}, len(meta.Pipeline))
	entityLabels := make(map[string]struct{})
	p.meta.Labels = make(map[string][]string)
	for _, name := range meta.Pipeline {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("component %s listed twice", name)
		}
		seen[name] = struct{}{}

		c, provides, err := buildComponent(name, filepath.Join(dir, name), p.tokenizer)
		if err != nil {
			return nil, err
		}
		p.components = append(p.components, c)

		switch provides {
		case capNER:
			p.capabilities.NER = true
		case capEntityLinker:
			p.capabilities.EntityLinker = true
		case capTextCat:
			p.capabilities.TextCat = true
		}

		if l, ok := c.(Labeler); ok {
			labels := l.Labels()
			p.meta.Labels[name] = labels
			if provides == capNER {
				for _, label := range labels {
					entityLabels[label] = struct{}{}
				}
			}
		}
	}

	p.entityLabels = make([]string, 0, len(entityLabels))
	for label := range entityLabels {
		p.entityLabels = append(p.entityLabels, label)
	}
	sort.Strings(p.entityLabels)

	log.Debugf("loaded pipeline %s from %s with components %v", id, dir, meta.Pipeline)
	return p, nil
}

func readTokenizerConfig(path string) (TokenizerConfig, error) {
	var cfg TokenizerConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid tokenizer.yaml: %w", err)
	}
	return cfg, nil
}

// Process runs the pipeline over text. Failures are returned as
// *models.ProcessingError.
func (p *Pipeline) Process(ctx context.Context, text string) (*models.Document, error) {
	if !utf8.ValidString(text) {
		return nil, models.NewProcessingError(p.id, ErrInvalidUTF8)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.NewProcessingError(p.id, err)
	}

	doc := newDoc(text)
	doc.Tokens = p.tokenizer.tokenizeRunes(doc.runes)

	for _, c := range p.components {
		if err := c.Apply(ctx, doc); err != nil {
			return nil, models.NewProcessingError(p.id, fmt.Errorf("%s: %w", c.Name(), err))
		}
	}

	return doc.Document, nil
}

// Meta returns a copy of the pipeline metadata.
func (p *Pipeline) Meta() models.ModelMeta {
	meta := p.meta
	meta.Pipeline = append([]string(nil), p.meta.Pipeline...)
	meta.Labels = make(map[string][]string, len(p.meta.Labels))
	for k, v := range p.meta.Labels {
		meta.Labels[k] = append([]string(nil), v...)
	}
	return meta
}

func (p *Pipeline) Capabilities() models.Capabilities {
	return p.capabilities
}

func (p *Pipeline) Labels(component string) []string {
	return append([]string(nil), p.meta.Labels[component]...)
}

func (p *Pipeline) EntityLabels() []string {
	return append([]string(nil), p.entityLabels...)
}

func (p *Pipeline) PipeNames() []string {
	names := make([]string, len(p.components))
	for i, c := range p.components {
		names[i] = c.Name()
	}
	return names
}

// Dir returns the directory the pipeline was loaded from.
func (p *Pipeline) Dir() string {
	return p.dir
}
