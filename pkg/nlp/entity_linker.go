package nlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// KBEntry is one knowledge-base entity and the surface forms that refer to it.
type KBEntry struct {
	ID      string   `yaml:"id"`
	Aliases []string `yaml:"aliases"`
	// Labels restricts linking to entities with one of these labels. Empty
	// means any label.
	Labels []string `yaml:"labels"`
}

type EntityLinkerConfig struct {
	Factory  string    `yaml:"factory"`
	KBFile   string    `yaml:"kb_file"`
	Entities []KBEntry `yaml:"entities"`
}

var entityLinkerDefaults = EntityLinkerConfig{
	KBFile: "kb.yaml",
}

type kbTarget struct {
	id     string
	labels map[string]struct{}
}

// EntityLinker assigns knowledge-base identifiers to recognized entities by
// case-insensitive alias lookup.
type EntityLinker struct {
	name    string
	aliases map[string][]kbTarget
}

func newEntityLinker(name, dir string, raw []byte, _ *Tokenizer) (Component, error) {
	var cfg EntityLinkerConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid entity_linker config: %w", err)
	}
	if err := mergo.Merge(&cfg, entityLinkerDefaults); err != nil {
		return nil, err
	}

	entries := cfg.Entities
	kbRaw, err := os.ReadFile(filepath.Join(dir, cfg.KBFile))
	switch {
	case err == nil:
		var fileEntries []KBEntry
		if err := yaml.Unmarshal(kbRaw, &fileEntries); err != nil {
			return nil, fmt.Errorf("invalid knowledge base %s: %w", cfg.KBFile, err)
		}
		entries = append(entries, fileEntries...)
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return NewEntityLinker(name, entries)
}

func NewEntityLinker(name string, entries []KBEntry) (*EntityLinker, error) {
	l := &EntityLinker{name: name, aliases: make(map[string][]kbTarget)}
	for i, e := range entries {
		if e.ID == "" || len(e.Aliases) == 0 {
			return nil, fmt.Errorf("kb entry %d: id and aliases are required", i)
		}
		target := kbTarget{id: e.ID}
		if len(e.Labels) > 0 {
			target.labels = make(map[string]struct{}, len(e.Labels))
			for _, label := range e.Labels {
				target.labels[label] = struct{}{}
			}
		}
		for _, alias := range e.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			l.aliases[key] = append(l.aliases[key], target)
		}
	}
	return l, nil
}

func (l *EntityLinker) Name() string { return l.name }

func (l *EntityLinker) Apply(ctx context.Context, doc *Doc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range doc.Ents {
		ent := &doc.Ents[i]
		for _, target := range l.aliases[strings.ToLower(ent.Text)] {
			if target.labels != nil {
				if _, ok := target.labels[ent.Label]; !ok {
					continue
				}
			}
			ent.KBID = target.id
			break
		}
	}
	return nil
}
