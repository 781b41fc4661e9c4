package models

import (
	"context"
	"html/template"
)

// VisualizeRequest carries the inputs of one render cycle. A nil Labels
// selects every label of the entity recognizer; an empty slice selects none.
type VisualizeRequest struct {
	Model    string    `json:"model"               validate:"required"`
	Text     string    `json:"text"`
	Labels   *[]string `json:"labels,omitempty"`
	ShowDoc  bool      `json:"show_doc,omitempty"`
	ShowMeta bool      `json:"show_meta,omitempty"`
}

// RenderModel is everything a front end needs to draw one render cycle.
// Entities and Classification are nil when the pipeline lacks the
// capability; DocJSON and MetaJSON are nil unless requested.
type RenderModel struct {
	Model          string              `json:"model"`
	Models         []string            `json:"models"`
	Text           string              `json:"text"`
	Capabilities   Capabilities        `json:"capabilities"`
	Entities       *EntityView         `json:"entities,omitempty"`
	Classification *ClassificationView `json:"classification,omitempty"`
	DocJSON        *Document           `json:"doc_json,omitempty"`
	MetaJSON       *ModelMeta          `json:"meta_json,omitempty"`
}

type EntityView struct {
	Labels   []string      `json:"labels"`
	Selected []string      `json:"selected"`
	HTML     template.HTML `json:"html"`
	Columns  []string      `json:"columns"`
	Rows     [][]string    `json:"rows"`
}

type ClassificationView struct {
	Text string          `json:"text"`
	Rows []CategoryScore `json:"rows"`
}

// ModelInfo describes a selectable model.
type ModelInfo struct {
	ID           string       `json:"id"`
	Capabilities Capabilities `json:"capabilities"`
	Labels       []string     `json:"labels"`
}

// Visualizer turns a request into a render model.
type Visualizer interface {
	Visualize(ctx context.Context, req *VisualizeRequest) (*RenderModel, error)
}
