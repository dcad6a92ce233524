package ingest

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
)

// Mode режим разбора файла.
type Mode int

const (
	// ModeLenient быстрая загрузка: вес, размер и количество не проверяются, по умолчанию 0.
	ModeLenient Mode = iota
	// ModeStrict пакетная загрузка: строка с любой ошибкой не превращается в заказ.
	ModeStrict
)

// Количество больше 2^53 уже не представимо точно в float64.
const maxQuantity = 1 << 53

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// ParseMode разбирает режим из строки запроса или флага.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "lenient", "quick":
		return ModeLenient, nil
	case "strict":
		return ModeStrict, nil
	}
	return ModeLenient, fmt.Errorf("неизвестный режим загрузки %q", value)
}

// InvalidTypePolicy что делать со строкой, у которой тип заказа не CO, RB или SO.
// Ошибка в отчёт попадает при любой политике.
type InvalidTypePolicy int

const (
	InvalidTypeReject InvalidTypePolicy = iota
	InvalidTypeDefaultRB
)

// ParseInvalidTypePolicy разбирает политику из конфигурации.
func ParseInvalidTypePolicy(value string) (InvalidTypePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "reject":
		return InvalidTypeReject, nil
	case "default-rb", "rb":
		return InvalidTypeDefaultRB, nil
	}
	return InvalidTypeReject, fmt.Errorf("неизвестная политика типа заказа %q", value)
}

const DefaultBatchSize = 100

// headerOffset номер первой строки данных в файле: строки нумеруются с 1, первая занята заголовком.
const headerOffset = 2

type Options struct {
	Mode        Mode
	InvalidType InvalidTypePolicy
	BatchSize   int
	Now         func() time.Time
	// Progress вызывается после каждой пачки строк.
	Progress func(processed, total int)
}

// ParseError диагностика по одному полю одной строки. Не сохраняется, только показывается оператору.
type ParseError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("строка %d, %s: %s", e.Row, e.Field, e.Message)
}

// Result итог разбора: заказы, ошибки и число строк на входе.
type Result struct {
	Orders []models.Order `json:"orders"`
	Errors []ParseError   `json:"errors"`
	Total  int            `json:"total"`
}

// Parse разбирает строки пачками. Ошибки строк не прерывают разбор.
// Отмена контекста проверяется только между пачками; уже разобранные строки остаются в результате.
func Parse(ctx context.Context, rows []Row, opts Options) (Result, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	startedAt := now()

	result := Result{
		Orders: make([]models.Order, 0, len(rows)),
		Errors: []ParseError{},
		Total:  len(rows),
	}

	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		for _, row := range rows[start:end] {
			order, errs := ParseRow(row, opts, startedAt)
			result.Errors = append(result.Errors, errs...)
			if order != nil {
				result.Orders = append(result.Orders, *order)
			}
		}

		if opts.Progress != nil {
			opts.Progress(end, len(rows))
		}
		runtime.Gosched()
	}

	return result, nil
}

// ParseRow разбирает одну строку. Пустые строки пропускаются без ошибок.
func ParseRow(row Row, opts Options, now time.Time) (*models.Order, []ParseError) {
	if row.Blank() {
		return nil, nil
	}

	fields := Extract(row)
	line := row.Index + headerOffset

	var errs []ParseError
	report := func(field, message string) {
		errs = append(errs, ParseError{Row: line, Field: field, Message: message})
	}

	if fields.OrderNo == "" {
		report(FieldOrderNo, "Order No is required")
	}

	orderType, typeOK := models.ParseOrderType(fields.OrderType)
	if !typeOK {
		if fields.OrderType == "" {
			report(FieldOrderType, "Order Type is required (CO, RB or SO)")
		} else {
			report(FieldOrderType, fmt.Sprintf("Order Type %q is not one of CO, RB, SO", fields.OrderType))
		}
		if opts.InvalidType == InvalidTypeDefaultRB {
			orderType, typeOK = models.TypeRB, true
		}
	}

	if fields.Product == "" {
		report(FieldProduct, "Product is required")
	}
	if fields.Design == "" {
		report(FieldDesign, "Design is required")
	}

	var quantity int64
	quantityOK := !math.IsNaN(fields.Quantity) && math.Abs(fields.Quantity) <= maxQuantity
	if quantityOK {
		quantity = int64(math.Trunc(fields.Quantity))
	} else {
		report(FieldQuantity, "Quantity is too large")
	}
	if opts.Mode == ModeStrict {
		if fields.Weight <= 0 {
			report(FieldWeight, "Weight must be greater than 0")
		}
		if fields.Size <= 0 {
			report(FieldSize, "Size must be greater than 0")
		}
		switch {
		case !quantityOK:
		case fields.Quantity <= 0:
			report(FieldQuantity, "Quantity must be greater than 0")
		case fields.Quantity != math.Trunc(fields.Quantity):
			report(FieldQuantity, "Quantity must be a whole number")
		}
	}

	if fields.OrderNo == "" || !typeOK {
		return nil, errs
	}
	if opts.Mode == ModeStrict && len(errs) > 0 {
		return nil, errs
	}

	stamp := utils.RFC3339Date{Time: now}
	return &models.Order{
		OrderID:   fmt.Sprintf("%s-%d-%d", fields.OrderNo, now.UnixMilli(), row.Index),
		OrderNo:   fields.OrderNo,
		OrderType: orderType,
		Product:   fields.Product,
		Design:    fields.Design,
		Weight:    fields.Weight,
		Size:      fields.Size,
		Quantity:  quantity,
		Remarks:   fields.Remarks,
		Status:    models.StatusPending,
		OrderDate: utils.DatePtr(fields.OrderDate),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, errs
}
