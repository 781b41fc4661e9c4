package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/models"
)

var indexTemplates = []string{"templates/pages/index.html"}

func renderPage(t *testing.T, page *Page, hx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if hx {
		req.Header.Set("HX-Request", "true")
	}
	res := httptest.NewRecorder()
	page.Render(res, req)
	return res
}

func TestRenderIndexPage(t *testing.T) {
	rm := &models.RenderModel{
		Model:        "id_maslahah_ner",
		Models:       []string{"id_maslahah_ner", "id_maslahah_sentiment"},
		Text:         "Jakarta",
		Capabilities: models.Capabilities{Tokenizer: true, NER: true},
		Entities: &models.EntityView{
			Labels:   []string{"LOC", "ORG"},
			Selected: []string{"LOC"},
			HTML:     `<div class="entities">marked</div>`,
			Columns:  []string{"text", "label_", "start", "end", "start_char", "end_char"},
			Rows:     [][]string{{"Jakarta", "LOC", "0", "1", "0", "7"}},
		},
		MetaJSON: &models.ModelMeta{Name: "maslahah_ner"},
	}
	data, err := NewIndexData(config.UIConfig{Title: "Visualizer", Description: "blurb"}, rm.Models, rm.Model, rm.Text, rm)
	require.NoError(t, err)
	assert.Empty(t, data.DocJSON)
	assert.NotEmpty(t, data.MetaJSON)
	assert.Nil(t, data.ClassificationTable)

	res := renderPage(t, NewPage("Visualizer", "", "/", indexTemplates, data), false)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()

	assert.Contains(t, body, "<title>Visualizer</title>")
	assert.Contains(t, body, `<option value="id_maslahah_ner" selected>`)
	assert.Contains(t, body, `<input type="checkbox" name="labels" value="LOC" checked>`)
	assert.Contains(t, body, `<input type="checkbox" name="labels" value="ORG" >`)
	assert.Contains(t, body, `<div class="entities">marked</div>`)
	assert.Contains(t, body, "<td>Jakarta</td>")
	assert.Contains(t, body, "Named Entities")
	assert.NotContains(t, body, "Text Classification")
	assert.Contains(t, body, "JSON model meta")
	assert.Contains(t, body, `<pre class="json"`)
}

func TestRenderIndexError(t *testing.T) {
	data, err := NewIndexData(config.UIConfig{Title: "Visualizer"}, []string{"a"}, "a", "<script>", nil)
	require.NoError(t, err)
	data.Error = "model \"a\" failed"

	page := NewPage("Visualizer", "", "/", indexTemplates, data)
	page.Status = http.StatusInternalServerError
	res := renderPage(t, page, false)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "JSON Doc")
}

func TestRenderPartial(t *testing.T) {
	data, err := NewIndexData(config.UIConfig{Title: "Visualizer"}, []string{"a"}, "a", "teks", nil)
	require.NoError(t, err)

	res := renderPage(t, NewPage("Visualizer", "", "/", indexTemplates, data), true)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "<html")
	assert.Contains(t, res.Body.String(), "teks")
}

func TestClassificationTable(t *testing.T) {
	table := NewClassificationTable(&models.ClassificationView{
		Rows: []models.CategoryScore{{Label: "positive", Score: 0.25}, {Label: "negative", Score: 0.75}},
	})
	assert.Equal(t, 2, table.RowCount)
	assert.Equal(t, [][]string{{"positive", "0.25"}, {"negative", "0.75"}}, table.Rows)
	assert.True(t, table.Columns[1].Numeric)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "nlpvizdemo", slugify("NLPViz Demo 2"))
}
