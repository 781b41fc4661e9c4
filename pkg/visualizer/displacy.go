package visualizer

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/maslahah/nlpviz/pkg/models"
)

// HTMLWrapper frames the highlighted text so that long lines scroll.
const HTMLWrapper = `<div style="overflow-x: auto; border: 1px solid #e6e9ef; border-radius: 0.25rem; padding: 1rem; margin-bottom: 2.5rem">%s</div>`

const defaultColor = "#ddd"

// DefaultColors are the label backgrounds used by displaCy, plus the short
// PER label of Indonesian corpora.
var DefaultColors = map[string]string{
	"ORG":         "#7aecec",
	"PRODUCT":     "#bfeeb7",
	"GPE":         "#feca74",
	"LOC":         "#ff9561",
	"PERSON":      "#aa9cfc",
	"PER":         "#aa9cfc",
	"NORP":        "#c887fb",
	"FAC":         "#9cc9cc",
	"EVENT":       "#ffeb80",
	"LAW":         "#ff8197",
	"LANGUAGE":    "#ff8197",
	"WORK_OF_ART": "#f0d0ff",
	"DATE":        "#bfe1d9",
	"TIME":        "#bfe1d9",
	"MONEY":       "#e4e7d2",
	"QUANTITY":    "#e4e7d2",
	"ORDINAL":     "#e4e7d2",
	"CARDINAL":    "#e4e7d2",
	"PERCENT":     "#e4e7d2",
	"MISC":        "#e4e7d2",
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+)$`)

// Palette resolves label colours, preferring configured overrides. Invalid
// overrides are ignored.
type Palette struct {
	colors map[string]string
}

func NewPalette(overrides map[string]string) *Palette {
	colors := make(map[string]string, len(DefaultColors)+len(overrides))
	for label, c := range DefaultColors {
		colors[label] = c
	}
	for label, c := range overrides {
		if colorPattern.MatchString(c) {
			colors[strings.ToUpper(label)] = c
		}
	}
	return &Palette{colors: colors}
}

func (p *Palette) Color(label string) string {
	if c, ok := p.colors[strings.ToUpper(label)]; ok {
		return c
	}
	return defaultColor
}

const (
	markOpen  = `<mark class="entity" style="background: %s; padding: 0.45em 0.6em; margin: 0 0.25em; line-height: 1; border-radius: 0.35em;">`
	labelOpen = `<span style="font-size: 0.8em; font-weight: bold; line-height: 1; border-radius: 0.35em; vertical-align: middle; margin-left: 0.5rem">`
)

// RenderEntities marks up text in the displaCy "ent" style, highlighting the
// entities whose label is selected. All text is escaped and newlines become
// spaces. The result is wrapped in HTMLWrapper.
func RenderEntities(doc *models.Document, selected []string, palette *Palette) template.HTML {
	show := make(map[string]struct{}, len(selected))
	for _, l := range selected {
		show[l] = struct{}{}
	}

	runes := []rune(doc.Text)
	var b strings.Builder
	b.WriteString(`<div class="entities" style="line-height: 2.5; direction: ltr">`)
	offset := 0
	for _, ent := range doc.Ents {
		if _, ok := show[ent.Label]; !ok {
			continue
		}
		if ent.StartChar < offset || ent.EndChar > len(runes) {
			continue
		}
		b.WriteString(template.HTMLEscapeString(string(runes[offset:ent.StartChar])))
		fmt.Fprintf(&b, markOpen, palette.Color(ent.Label))
		b.WriteString(template.HTMLEscapeString(string(runes[ent.StartChar:ent.EndChar])))
		b.WriteString(labelOpen)
		b.WriteString(template.HTMLEscapeString(ent.Label))
		b.WriteString(`</span></mark>`)
		offset = ent.EndChar
	}
	b.WriteString(template.HTMLEscapeString(string(runes[offset:])))
	b.WriteString(`</div>`)

	html := strings.ReplaceAll(b.String(), "\n", " ")
	return template.HTML(fmt.Sprintf(HTMLWrapper, html))
}
