package web

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/getzep/sprig/v3"
)

func add(a, b int64) int64 {
	return a + b
}

func sub(a, b int64) int64 {
	return a - b
}

// percent renders a 0..1 score as a whole percentage, clamped to 0..100.
func percent(score float64) int {
	switch {
	case score <= 0:
		return 0
	case score >= 1:
		return 100
	}
	return int(score*100 + 0.5)
}

func charCount(s string) string {
	return humanize.Comma(int64(utf8.RuneCountInString(s)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TemplateFuncs returns the sprig functions plus the helpers used by the
// nlpviz templates.
func TemplateFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	for name, fn := range templateFuncs() {
		funcs[name] = fn
	}
	return funcs
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ToLower":       strings.ToLower,
		"Add":           add,
		"Sub":           sub,
		"Percent":       percent,
		"CharCount":     charCount,
		"Contains":      contains,
		"HighlightJSON": HighlightJSON,
	}
}
