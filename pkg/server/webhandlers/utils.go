package webhandlers

import (
	"net/http"

	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/server/handlertools"
	"github.com/maslahah/nlpviz/pkg/web"
)

var log = internal.GetLogger()

// handleError shows err in the page's error panel with the matching status.
func handleError(page *web.Page, data *web.IndexData, err error, message string) {
	page.Status = handlertools.StatusForError(err)
	data.Error = err.Error()
	if page.Status == http.StatusInternalServerError {
		log.Errorf("%s: %s", message, err)
	} else {
		log.Debugf("%s: %s", message, err)
	}
}
