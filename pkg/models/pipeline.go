package models

import "context"

// Component names recognized when building capability descriptors.
const (
	ComponentNER          = "ner"
	ComponentEntityLinker = "entity_linker"
	ComponentTextCat      = "textcat"
)

// Capabilities describes what a loaded pipeline can produce. It is computed
// once when the pipeline is loaded.
type Capabilities struct {
	Tokenizer    bool `json:"tokenizer"`
	NER          bool `json:"ner"`
	EntityLinker bool `json:"entity_linker"`
	TextCat      bool `json:"textcat"`
}

// ModelMeta is the static metadata of a pipeline, read from its meta.json.
// Labels is filled in at load time from the built components.
type ModelMeta struct {
	Lang          string              `json:"lang"                     jsonschema:"required,minLength=1"`
	Name          string              `json:"name"                     jsonschema:"required,minLength=1"`
	Version       string              `json:"version"                  jsonschema:"required,minLength=1"`
	Description   string              `json:"description,omitempty"`
	Author        string              `json:"author,omitempty"`
	Email         string              `json:"email,omitempty"`
	URL           string              `json:"url,omitempty"`
	License       string              `json:"license,omitempty"`
	NLPVizVersion string              `json:"nlpviz_version,omitempty"`
	Pipeline      []string            `json:"pipeline"                 jsonschema:"required"`
	Labels        map[string][]string `json:"labels,omitempty"`
}

// Pipeline is a loaded NLP pipeline.
type Pipeline interface {
	Process(ctx context.Context, text string) (*Document, error)
	Meta() ModelMeta
	Capabilities() Capabilities
	// Labels returns the labels of the named component, sorted.
	Labels(component string) []string
	// EntityLabels returns the sorted labels of every entity recognizer.
	EntityLabels() []string
	PipeNames() []string
}

// LoadedModel is a pipeline together with its identifier and capabilities.
type LoadedModel struct {
	ID           string
	Pipeline     Pipeline
	Capabilities Capabilities
}

// ModelLoader resolves model identifiers to loaded pipelines.
type ModelLoader interface {
	Load(ctx context.Context, id string) (*LoadedModel, error)
	Models() []string
}

// TextProcessor runs a model over a text.
type TextProcessor interface {
	Process(ctx context.Context, id string, text string) (*Document, error)
}
