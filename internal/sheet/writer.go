package sheet

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

const exportSheet = "Orders"

var exportHeader = []string{
	"Order ID", "Order No", "Order Type", "Product", "Design", "Generic Name", "Karigar",
	"Weight", "Size", "Quantity", "Status", "Remarks", "Order Date", "Created At",
}

// ContentType MIME-тип выгрузки.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// WriteOrders выгружает заказы плоской таблицей, одна строка на заказ.
func WriteOrders(w io.Writer, format Format, orders []models.Order) error {
	switch format {
	case FormatXLSX:
		return writeWorkbook(w, orders)
	case FormatCSV:
		return writeCSV(w, orders)
	}
	return errors.Wrapf(ErrUnsupportedFormat, "формат %q", format)
}

func writeWorkbook(w io.Writer, orders []models.Order) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = multierr.Append(err, errors.Wrap(f.Close(), "не удалось закрыть книгу"))
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "не удалось переименовать лист")
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "не удалось записать заголовок")
	}

	for i, order := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "неверные координаты ячейки")
		}
		values := []interface{}{
			order.OrderID, order.OrderNo, string(order.OrderType), order.Product, order.Design,
			models.StringValue(order.GenericName), models.StringValue(order.KarigarName),
			order.Weight, order.Size, order.Quantity, string(order.Status), order.Remarks,
			formatDate(order.OrderDate), order.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return errors.Wrapf(err, "не удалось записать заказ %s", order.OrderID)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "не удалось записать книгу")
	}
	return nil
}

func writeCSV(w io.Writer, orders []models.Order) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return errors.Wrap(err, "не удалось записать заголовок")
	}

	for _, order := range orders {
		record := []string{
			order.OrderID, order.OrderNo, string(order.OrderType), order.Product, order.Design,
			models.StringValue(order.GenericName), models.StringValue(order.KarigarName),
			strconv.FormatFloat(order.Weight, 'f', -1, 64),
			strconv.FormatFloat(order.Size, 'f', -1, 64),
			strconv.FormatInt(order.Quantity, 10),
			string(order.Status), order.Remarks,
			formatDate(order.OrderDate), order.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "не удалось записать заказ %s", order.OrderID)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "не удалось записать csv")
}

func formatDate(d *utils.RFC3339Date) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
