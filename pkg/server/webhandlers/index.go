package webhandlers

import (
	"net/http"

	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/server/handlertools"
	"github.com/maslahah/nlpviz/pkg/web"
)

const (
	indexPath = "/"

	paramModel     = "model"
	paramPrevModel = "prev_model"
	paramText      = "text"
	paramLabels    = "labels"
	paramLabelsSet = "labels_set"
	paramShowDoc   = "show_doc"
	paramShowMeta  = "show_meta"
)

var indexTemplates = []string{"templates/pages/index.html"}

// IndexHandler renders the visualizer. Every interaction submits the whole
// form and the page is rebuilt from it. Switching model resets the text to
// the model's sample text and selects every entity label.
func IndexHandler(appState *models.AppState) http.HandlerFunc {
	ui := appState.Config.UI
	return func(w http.ResponseWriter, r *http.Request) {
		ids := appState.Loader.Models()
		q := r.URL.Query()

		model := q.Get(paramModel)
		if model == "" && len(ids) > 0 {
			model = ids[0]
		}

		req := &models.VisualizeRequest{Model: model}
		if model != q.Get(paramPrevModel) {
			req.Text = ui.SampleTexts[model]
		} else {
			req.Text = q.Get(paramText)
			req.Labels = handlertools.LabelsFromQuery(r, paramLabels, paramLabelsSet)
		}

		// malformed flags read as false
		req.ShowDoc, _ = handlertools.BoolFromQuery(r, paramShowDoc)
		req.ShowMeta, _ = handlertools.BoolFromQuery(r, paramShowMeta)

		rm, visErr := appState.Visualizer.Visualize(r.Context(), req)

		data, err := web.NewIndexData(ui, ids, model, req.Text, rm)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		page := web.NewPage(ui.Title, "", indexPath, indexTemplates, data)
		if visErr != nil {
			handleError(page, data, visErr, "Failed to visualize text")
		}

		page.Render(w, r)
	}
}

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := web.NewPage("Not Found", "", r.URL.Path, []string{"templates/pages/404.html"}, nil)
		page.Status = http.StatusNotFound
		page.Render(w, r)
	}
}
