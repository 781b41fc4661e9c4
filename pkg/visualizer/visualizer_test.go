package visualizer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maslahah/nlpviz/pkg/analysis"
	"github.com/maslahah/nlpviz/pkg/cache"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/testutils"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg, err := testutils.NewTestConfig()
	require.NoError(t, err)
	loader, err := analysis.NewLoader(cfg)
	require.NoError(t, err)
	processor := analysis.NewProcessor(loader, cache.NewMemoryStore[*models.Document](nil))
	return NewHandler(loader, processor, cfg)
}

func labels(l ...string) *[]string {
	if l == nil {
		l = []string{}
	}
	return &l
}

func TestVisualizeNERAllLabels(t *testing.T) {
	h := newTestHandler(t)

	rm, err := h.Visualize(context.Background(), &models.VisualizeRequest{
		Model: testutils.NERModel,
		Text:  testutils.NERText,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{testutils.NERModel, testutils.SentimentModel}, rm.Models)
	assert.Equal(t, testutils.NERText, rm.Text)
	assert.Nil(t, rm.Classification)
	assert.Nil(t, rm.DocJSON)
	assert.Nil(t, rm.MetaJSON)

	require.NotNil(t, rm.Entities)
	assert.Equal(t, []string{"LOC", "ORG", "PER"}, rm.Entities.Labels)
	assert.Equal(t, []string{"LOC", "ORG", "PER"}, rm.Entities.Selected)
	assert.Equal(t,
		[]string{"text", "label_", "start", "end", "start_char", "end_char", "kb_id_"},
		rm.Entities.Columns,
	)
	assert.Equal(t, [][]string{
		{"Joko Widodo", "PER", "0", "2", "0", "11", "Q3318231"},
		{"PDI-Perjuangan", "ORG", "6", "7", "40", "54", ""},
	}, rm.Entities.Rows)

	html := string(rm.Entities.HTML)
	assert.True(t, strings.HasPrefix(html, `<div style="overflow-x: auto;`))
	assert.Equal(t, 2, strings.Count(html, `<mark class="entity"`))
	assert.Contains(t, html, "Joko Widodo"+labelOpen+"PER</span></mark>")
}

func TestVisualizeEmptySelection(t *testing.T) {
	h := newTestHandler(t)

	rm, err := h.Visualize(context.Background(), &models.VisualizeRequest{
		Model:  testutils.NERModel,
		Text:   testutils.NERText,
		Labels: labels(),
	})
	require.NoError(t, err)

	require.NotNil(t, rm.Entities)
	assert.Empty(t, rm.Entities.Selected)
	assert.Empty(t, rm.Entities.Rows)
	assert.NotContains(t, string(rm.Entities.HTML), "<mark")
	assert.Contains(t, string(rm.Entities.HTML), "Joko Widodo adalah presiden")
}

func TestVisualizeSubsetSelection(t *testing.T) {
	h := newTestHandler(t)

	rm, err := h.Visualize(context.Background(), &models.VisualizeRequest{
		Model:  testutils.NERModel,
		Text:   testutils.NERText,
		Labels: labels("ORG", "NOT_A_LABEL"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ORG"}, rm.Entities.Selected)
	assert.Equal(t, [][]string{{"PDI-Perjuangan", "ORG", "6", "7", "40", "54", ""}}, rm.Entities.Rows)
	assert.Equal(t, 1, strings.Count(string(rm.Entities.HTML), "<mark"))
}

func TestVisualizeSentiment(t *testing.T) {
	h := newTestHandler(t)

	rm, err := h.Visualize(context.Background(), &models.VisualizeRequest{
		Model:    testutils.SentimentModel,
		Text:     testutils.SentimentText,
		ShowDoc:  true,
		ShowMeta: true,
	})
	require.NoError(t, err)

	assert.Nil(t, rm.Entities)
	require.NotNil(t, rm.Classification)
	assert.Equal(t, testutils.SentimentText, rm.Classification.Text)
	require.Len(t, rm.Classification.Rows, 2)
	assert.Equal(t, "positive", rm.Classification.Rows[0].Label)
	assert.Equal(t, "negative", rm.Classification.Rows[1].Label)

	require.NotNil(t, rm.DocJSON)
	assert.Equal(t, testutils.SentimentText, rm.DocJSON.Text)
	require.NotNil(t, rm.MetaJSON)
	assert.Equal(t, []string{"textcat"}, rm.MetaJSON.Pipeline)
}

func TestVisualizeErrors(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Visualize(context.Background(), &models.VisualizeRequest{Model: "en_core_web_sm"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = h.Visualize(context.Background(), &models.VisualizeRequest{})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = h.Visualize(context.Background(), &models.VisualizeRequest{
		Model: testutils.NERModel,
		Text:  "bad \xff",
	})
	var pe *models.ProcessingError
	assert.ErrorAs(t, err, &pe)
}

func TestVisualizeEscapesText(t *testing.T) {
	h := newTestHandler(t)

	rm, err := h.Visualize(context.Background(), &models.VisualizeRequest{
		Model: testutils.NERModel,
		Text:  "Kota <Jakarta> & \"Bandung\"\nbaru",
	})
	require.NoError(t, err)

	html := string(rm.Entities.HTML)
	assert.Contains(t, html, "Kota &lt;")
	assert.Contains(t, html, "&gt; &amp; &#34;")
	assert.NotContains(t, html, "\n")
	assert.NotContains(t, html, "<Jakarta>")
	assert.Equal(t, 2, strings.Count(html, "<mark"))
	assert.Equal(t, [][]string{
		{"Jakarta", "LOC", "2", "3", "6", "13", "Q3630"},
		{"Bandung", "LOC", "6", "7", "18", "25", ""},
	}, rm.Entities.Rows)
}

func TestRenderEntities(t *testing.T) {
	doc := models.NewDocument("A & Jakarta")
	doc.Ents = append(doc.Ents, models.EntitySpan{
		Text: "Jakarta", Label: "LOC", Start: 2, End: 3, StartChar: 4, EndChar: 11,
	})

	got := RenderEntities(doc, []string{"LOC"}, NewPalette(nil))
	inner := `<div class="entities" style="line-height: 2.5; direction: ltr">A &amp; ` +
		fmt.Sprintf(markOpen, "#ff9561") + "Jakarta" + labelOpen + "LOC</span></mark></div>"
	assert.Equal(t, fmt.Sprintf(HTMLWrapper, inner), string(got))
}

func TestPalette(t *testing.T) {
	p := NewPalette(map[string]string{
		"loc":  "#123456",
		"ORG":  "red; background-image: url(x)",
		"CITY": "teal",
	})
	assert.Equal(t, "#123456", p.Color("LOC"))
	assert.Equal(t, DefaultColors["ORG"], p.Color("ORG"))
	assert.Equal(t, "teal", p.Color("CITY"))
	assert.Equal(t, defaultColor, p.Color("UNKNOWN"))
}

func TestSelectLabels(t *testing.T) {
	all := []string{"LOC", "ORG", "PER"}
	assert.Equal(t, all, SelectLabels(all, nil))
	assert.Equal(t, []string{}, SelectLabels(all, labels()))
	assert.Equal(t, []string{"LOC", "PER"}, SelectLabels(all, labels("PER", "LOC")))
}
