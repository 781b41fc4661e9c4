package handlertools

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/models"
)

var log = internal.GetLogger()

// BoolFromQuery extracts a query string value and converts it to a bool
func BoolFromQuery(r *http.Request, param string) (bool, error) {
	p := r.URL.Query().Get(param)
	if p != "" {
		return strconv.ParseBool(p)
	}
	return false, nil
}

// LabelsFromQuery returns the repeated labels parameter. It returns nil when
// the form carrying the labels was not submitted, so that every label is
// selected, and an empty slice when it was submitted with nothing checked.
func LabelsFromQuery(r *http.Request, param, marker string) *[]string {
	q := r.URL.Query()
	if _, ok := q[param]; !ok {
		if _, submitted := q[marker]; !submitted {
			return nil
		}
	}
	labels := append([]string{}, q[param]...)
	return &labels
}

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes a JSON request body into the provided data struct.
func DecodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// StatusForError maps the application's error kinds to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RenderError renders an error response.
func RenderError(w http.ResponseWriter, err error, status int) {
	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}

	if errors.Is(err, models.ErrBadRequest) {
		status = http.StatusBadRequest
	}

	http.Error(w, err.Error(), status)
}
