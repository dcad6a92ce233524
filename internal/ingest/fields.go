package ingest

import (
	"strings"
	"time"

	"github.com/Renal37/karigar-desk/internal/design"
)

// Псевдонимы заголовков по каноническим полям, в порядке приоритета.
// Значения уже свёрнуты функцией headerKey.
var (
	orderNoAliases   = []string{"orderno", "ordernumber", "orderid", "ono"}
	orderTypeAliases = []string{"ordertype", "type"}
	productAliases   = []string{"product", "productname", "item"}
	designAliases    = []string{"design", "designcode", "designno"}
	weightAliases    = []string{"weight", "wt", "weightg", "grossweight"}
	sizeAliases      = []string{"size"}
	quantityAliases  = []string{"quantity", "qty", "pcs"}
	remarksAliases   = []string{"remarks", "remark", "notes", "note"}
	dateAliases      = []string{"orderdate", "date"}
)

// Имена полей, под которыми ошибки показываются оператору.
const (
	FieldOrderNo   = "Order No"
	FieldOrderType = "Order Type"
	FieldProduct   = "Product"
	FieldDesign    = "Design"
	FieldWeight    = "Weight"
	FieldSize      = "Size"
	FieldQuantity  = "Quantity"
)

// Fields типизированная запись строки после сопоставления заголовков.
// Дальше этой границы с сырыми строками никто не работает.
type Fields struct {
	OrderNo   string
	OrderType string
	Product   string
	Design    string
	Weight    float64
	Size      float64
	Quantity  float64
	Remarks   string
	OrderDate *time.Time
}

// Extract сопоставляет ячейки строки с каноническими полями.
func Extract(row Row) Fields {
	return Fields{
		OrderNo:   stringField(row, orderNoAliases),
		OrderType: strings.ToUpper(stringField(row, orderTypeAliases)),
		Product:   stringField(row, productAliases),
		Design:    design.Normalize(stringField(row, designAliases)),
		Weight:    numberField(row, weightAliases),
		Size:      numberField(row, sizeAliases),
		Quantity:  numberField(row, quantityAliases),
		Remarks:   stringField(row, remarksAliases),
		OrderDate: ResolveOrderDate(row),
	}
}

func stringField(row Row, aliases []string) string {
	cell, ok := row.lookup(aliases, nil)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.Text)
}

func numberField(row Row, aliases []string) float64 {
	cell, ok := row.lookup(aliases, func(c Cell) bool {
		_, ok := c.Float()
		return ok
	})
	if !ok {
		return 0
	}
	value, _ := cell.Float()
	return value
}
