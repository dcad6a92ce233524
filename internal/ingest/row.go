// Package ingest разбирает строки табличных файлов с заказами в типизированные записи.
package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// CellKind вид значения ячейки.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindTime
)

// Cell значение одной ячейки таблицы. Text заполнен для всех непустых ячеек,
// Number только для числовых, Time только для ячеек с готовой датой.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

func TextCell(value string) Cell {
	if value == "" {
		return Cell{}
	}
	return Cell{Kind: KindText, Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: KindNumber, Number: value, Text: strconv.FormatFloat(value, 'f', -1, 64)}
}

func TimeCell(value time.Time) Cell {
	return Cell{Kind: KindTime, Time: value, Text: value.Format(time.RFC3339)}
}

// Empty сообщает, что в ячейке нет значения после обрезки пробелов.
func (c Cell) Empty() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(c.Text) == ""
	}
	return false
}

// Float возвращает конечное число из ячейки, если оно там есть.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	case KindText:
		value, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

type namedCell struct {
	key  string
	cell Cell
}

// Row строка таблицы: ячейки с заголовками столбцов в исходном порядке и индекс строки в файле
// (0 для первой строки данных после заголовка).
type Row struct {
	Index int
	cells []namedCell
}

func NewRow(index int) Row {
	return Row{Index: index}
}

// Set добавляет ячейку под заголовком header. Заголовки сравниваются без учёта регистра,
// пробелов, подчёркиваний, точек и дефисов.
func (r *Row) Set(header string, cell Cell) {
	r.cells = append(r.cells, namedCell{key: headerKey(header), cell: cell})
}

// Len количество ячеек в строке.
func (r Row) Len() int {
	return len(r.cells)
}

// Blank сообщает, что все ячейки строки пустые.
func (r Row) Blank() bool {
	for _, nc := range r.cells {
		if !nc.cell.Empty() {
			return false
		}
	}
	return true
}

// lookup возвращает первую непустую ячейку по списку псевдонимов: сначала порядок псевдонимов,
// затем порядок столбцов.
func (r Row) lookup(aliases []string, accept func(Cell) bool) (Cell, bool) {
	for _, alias := range aliases {
		for _, nc := range r.cells {
			if nc.key != alias || nc.cell.Empty() {
				continue
			}
			if accept == nil || accept(nc.cell) {
				return nc.cell, true
			}
		}
	}
	return Cell{}, false
}

func headerKey(header string) string {
	var b strings.Builder
	for _, r := range cases.Fold().String(strings.TrimSpace(header)) {
		switch r {
		case ' ', '_', '.', '-', '\t', '\n':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
