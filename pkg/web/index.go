package web

import (
	"html/template"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/models"
)

// IndexData is everything the visualizer page shows for one render cycle.
type IndexData struct {
	Title       string
	Description string
	Models      []string
	Model       string
	Text        string
	// Render is nil when the cycle failed; Error then holds the message.
	Render              *models.RenderModel
	EntityTable         *Table
	ClassificationTable *Table
	DocJSON             template.HTML
	MetaJSON            template.HTML
	Error               string
}

// NewIndexData lays out a render model for the page templates.
func NewIndexData(ui config.UIConfig, modelIDs []string, model, text string, rm *models.RenderModel) (*IndexData, error) {
	data := &IndexData{
		Title:       ui.Title,
		Description: ui.Description,
		Models:      modelIDs,
		Model:       model,
		Text:        text,
		Render:      rm,
	}
	if rm == nil {
		return data, nil
	}

	if rm.Entities != nil {
		data.EntityTable = NewEntityTable(rm.Entities)
	}
	if rm.Classification != nil {
		data.ClassificationTable = NewClassificationTable(rm.Classification)
	}

	var err error
	if rm.DocJSON != nil {
		if data.DocJSON, err = HighlightJSON(rm.DocJSON); err != nil {
			return nil, err
		}
	}
	if rm.MetaJSON != nil {
		if data.MetaJSON, err = HighlightJSON(rm.MetaJSON); err != nil {
			return nil, err
		}
	}
	return data, nil
}
