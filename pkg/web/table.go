package web

import (
	"strconv"

	"github.com/maslahah/nlpviz/pkg/models"
)

func NewTable(id string, columns []Column) *Table {
	return &Table{
		TableID: id,
		Columns: columns,
	}
}

type Column struct {
	Name string
	// Numeric columns are right aligned.
	Numeric bool
}

type Table struct {
	TableID  string
	Columns  []Column
	Rows     [][]string
	RowCount int
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
	t.RowCount = len(t.Rows)
}

var numericEntityColumns = map[string]bool{
	"start":      true,
	"end":        true,
	"start_char": true,
	"end_char":   true,
}

// NewEntityTable lays out the entity rows of a render cycle.
func NewEntityTable(view *models.EntityView) *Table {
	columns := make([]Column, len(view.Columns))
	for i, c := range view.Columns {
		columns[i] = Column{Name: c, Numeric: numericEntityColumns[c]}
	}
	t := NewTable("entities", columns)
	for _, row := range view.Rows {
		t.AddRow(row)
	}
	return t
}

// NewClassificationTable lays out label scores, printing scores in full.
func NewClassificationTable(view *models.ClassificationView) *Table {
	t := NewTable("classification", []Column{
		{Name: "Label"},
		{Name: "Score", Numeric: true},
	})
	for _, row := range view.Rows {
		t.AddRow([]string{row.Label, strconv.FormatFloat(row.Score, 'g', -1, 64)})
	}
	return t
}
