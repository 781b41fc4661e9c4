package visualizer

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/models"
)

var validate = validator.New()

var entityColumns = []string{"text", "label_", "start", "end", "start_char", "end_char"}

const kbColumn = "kb_id_"

var _ models.Visualizer = &Handler{}

// Handler answers one render cycle: it loads the selected model, processes
// the text and builds the views the model's capabilities allow.
type Handler struct {
	loader    models.ModelLoader
	processor models.TextProcessor
	palette   *Palette
}

func NewHandler(loader models.ModelLoader, processor models.TextProcessor, cfg *config.Config) *Handler {
	return &Handler{
		loader:    loader,
		processor: processor,
		palette:   NewPalette(cfg.UI.Colors),
	}
}

// Visualize builds the render model for req. Unknown models return a
// *models.NotFoundError; load and processing failures pass through.
func (h *Handler) Visualize(ctx context.Context, req *models.VisualizeRequest) (*models.RenderModel, error) {
	if err := validate.Struct(req); err != nil {
		return nil, models.NewBadRequestError(err.Error())
	}

	model, err := h.loader.Load(ctx, req.Model)
	if err != nil {
		return nil, err
	}
	doc, err := h.processor.Process(ctx, req.Model, req.Text)
	if err != nil {
		return nil, err
	}

	rm := &models.RenderModel{
		Model:        req.Model,
		Models:       h.loader.Models(),
		Text:         req.Text,
		Capabilities: model.Capabilities,
	}

	if model.Capabilities.NER {
		rm.Entities = h.entityView(model, doc, req.Labels)
	}

	if model.Capabilities.TextCat {
		rm.Classification = &models.ClassificationView{
			Text: req.Text,
			Rows: doc.CategoryList(),
		}
	}

	if req.ShowDoc {
		rm.DocJSON = doc
	}
	if req.ShowMeta {
		meta := model.Pipeline.Meta()
		rm.MetaJSON = &meta
	}

	return rm, nil
}

func (h *Handler) entityView(
	model *models.LoadedModel,
	doc *models.Document,
	labels *[]string,
) *models.EntityView {
	all := model.Pipeline.EntityLabels()
	selected := SelectLabels(all, labels)

	columns := append([]string(nil), entityColumns...)
	if model.Capabilities.EntityLinker {
		columns = append(columns, kbColumn)
	}

	return &models.EntityView{
		Labels:   all,
		Selected: selected,
		HTML:     RenderEntities(doc, selected, h.palette),
		Columns:  columns,
		Rows:     EntityRows(doc, selected, model.Capabilities.EntityLinker),
	}
}

// SelectLabels returns the effective label selection: every label when
// requested is nil, otherwise the requested labels that the recognizer knows,
// in recognizer order.
func SelectLabels(all []string, requested *[]string) []string {
	if requested == nil {
		return append([]string{}, all...)
	}
	want := make(map[string]struct{}, len(*requested))
	for _, l := range *requested {
		want[l] = struct{}{}
	}
	selected := []string{}
	for _, l := range all {
		if _, ok := want[l]; ok {
			selected = append(selected, l)
		}
	}
	return selected
}

// EntityRows returns one stringified row per entity with a selected label.
func EntityRows(doc *models.Document, selected []string, withKB bool) [][]string {
	show := make(map[string]struct{}, len(selected))
	for _, l := range selected {
		show[l] = struct{}{}
	}

	rows := [][]string{}
	for _, ent := range doc.Ents {
		if _, ok := show[ent.Label]; !ok {
			continue
		}
		row := []string{
			ent.Text,
			ent.Label,
			strconv.Itoa(ent.Start),
			strconv.Itoa(ent.End),
			strconv.Itoa(ent.StartChar),
			strconv.Itoa(ent.EndChar),
		}
		if withKB {
			row = append(row, ent.KBID)
		}
		rows = append(rows, row)
	}
	return rows
}
