package apihandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maslahah/nlpviz/pkg/analysis"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/server/handlertools"
)

var validate = validator.New()

// APIError represents an error response. Used for swagger documentation.
type APIError struct {
	Message string `json:"message"`
}

// ProcessRequest is the body of a process call. Text may be empty but must
// be present.
type ProcessRequest struct {
	Text *string `json:"text" validate:"required"`
}

// GetModelListHandler godoc
//
//	@Summary		Lists the selectable models
//	@Description	Each model is loaded on first use, so the first call may be slow.
//	@Tags			models
//	@Produce		json
//	@Success		200	{array}		models.ModelInfo
//	@Failure		500	{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/models [get]
func GetModelListHandler(appState *models.AppState) http.HandlerFunc {
	loader := appState.Loader
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := analysis.ModelInfos(r.Context(), loader)
		if err != nil {
			handlertools.RenderError(w, err, handlertools.StatusForError(err))
			return
		}

		if err := handlertools.EncodeJSON(w, infos); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetModelMetaHandler godoc
//
//	@Summary	Returns the metadata of a model
//	@Tags		models
//	@Produce	json
//	@Param		model	path		string			true	"Model identifier"
//	@Success	200		{object}	models.ModelMeta
//	@Failure	404		{object}	APIError	"Not Found"
//	@Failure	500		{object}	APIError	"Internal Server Error"
//	@Router		/api/v1/models/{model}/meta [get]
func GetModelMetaHandler(appState *models.AppState) http.HandlerFunc {
	loader := appState.Loader
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "model")

		model, err := loader.Load(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, handlertools.StatusForError(err))
			return
		}

		if err := handlertools.EncodeJSON(w, model.Pipeline.Meta()); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// ProcessTextHandler godoc
//
//	@Summary		Processes a text with a model
//	@Description	Returns the annotated document. Results are cached per model and text.
//	@Tags			models
//	@Accept			json
//	@Produce		json
//	@Param			model	path		string			true	"Model identifier"
//	@Param			request	body		ProcessRequest	true	"Text to process"
//	@Success		200		{object}	models.Document
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/models/{model}/process [post]
func ProcessTextHandler(appState *models.AppState) http.HandlerFunc {
	processor := appState.Processor
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "model")

		var req ProcessRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		doc, err := processor.Process(r.Context(), id, *req.Text)
		if err != nil {
			handlertools.RenderError(w, err, handlertools.StatusForError(err))
			return
		}

		if err := handlertools.EncodeJSON(w, doc); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// VisualizeHandler godoc
//
//	@Summary		Runs one render cycle
//	@Description	Omitting labels selects every entity label; an empty list selects none.
//	@Tags			visualize
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.VisualizeRequest	true	"Render request"
//	@Success		200		{object}	models.RenderModel
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/visualize [post]
func VisualizeHandler(appState *models.AppState) http.HandlerFunc {
	visualizer := appState.Visualizer
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.VisualizeRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		rm, err := visualizer.Visualize(r.Context(), &req)
		if err != nil {
			handlertools.RenderError(w, err, handlertools.StatusForError(err))
			return
		}

		if err := handlertools.EncodeJSON(w, rm); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
