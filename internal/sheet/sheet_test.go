package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := values
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat("Orders March.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	format, err = DetectFormat("orders.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, err = DetectFormat("orders.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadOrdersFromWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Order No", "Type", "Product", "Design", "Wt", "Size", "Qty", "Remarks", "Order Date"},
		{1001, "co", "Ring", "rg-01", 4.5, 12, 2, "", 45000},
		{"1002", "RB", "Bangle", "BG-3", 20, 2.6, 6, "urgent", "19/02/2026"},
	})

	rows, err := ReadOrders(buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	result, err := ingest.Parse(context.Background(), rows, ingest.Options{})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Orders, 2)

	first := result.Orders[0]
	assert.Equal(t, "1001", first.OrderNo)
	assert.Equal(t, models.TypeCO, first.OrderType)
	assert.Equal(t, "RG-01", first.Design)
	assert.Equal(t, 4.5, first.Weight)
	assert.Equal(t, int64(2), first.Quantity)
	require.NotNil(t, first.OrderDate)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), first.OrderDate.Time)

	second := result.Orders[1]
	assert.Equal(t, "urgent", second.Remarks)
	require.NotNil(t, second.OrderDate)
	assert.Equal(t, time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC), second.OrderDate.Time)
}

func TestReadOrdersFromCSV(t *testing.T) {
	data := "\ufeffOrder No,Order Type,Product,Design,Weight,Size,Quantity\n" +
		"1001,CO,Ring,rg-01,4.5,12,2\n" +
		"\n" +
		"1002,XX,Chain,CH-7,10,18\n"

	rows, err := ReadOrders(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	result, err := ingest.Parse(context.Background(), rows, ingest.Options{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, ingest.FieldOrderType, result.Errors[0].Field)
}

func TestReadOrdersEmptyFile(t *testing.T) {
	_, err := ReadOrders(strings.NewReader(""), FormatCSV)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ReadOrders(strings.NewReader("not a zip"), FormatXLSX)
	assert.Error(t, err)
}

func TestReadMappingsByPosition(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Код", "Название", "Каригар"},
		{"rg-01", "Ring", "Ramesh"},
		{"", "orphan", "nobody"},
		{"CH-7", "Chain"},
		{101, "Pendant", "Suresh"},
	})

	mappings, err := ReadMappings(buf, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []models.DesignMapping{
		{DesignCode: "rg-01", GenericName: "Ring", KarigarName: "Ramesh"},
		{DesignCode: "CH-7", GenericName: "Chain"},
		{DesignCode: "101", GenericName: "Pendant", KarigarName: "Suresh"},
	}, mappings)
}

func TestWriteOrders(t *testing.T) {
	karigar := "Ramesh"
	orders := []models.Order{
		{
			OrderID: "1001-1-0", OrderNo: "1001", OrderType: models.TypeCO, Product: "Ring", Design: "RG-01",
			Weight: 4.5, Size: 12, Quantity: 2, Status: models.StatusReady, KarigarName: &karigar,
			OrderDate: &utils.RFC3339Date{Time: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
			CreatedAt: utils.RFC3339Date{Time: time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)},
		},
	}

	var out bytes.Buffer
	require.NoError(t, WriteOrders(&out, FormatCSV, orders))

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		"1001-1-0", "1001", "CO", "Ring", "RG-01", "", "Ramesh", "4.5", "12", "2", "Ready", "",
		"2023-03-15", "2026-02-19T10:00:00Z",
	}, records[1])

	out.Reset()
	require.NoError(t, WriteOrders(&out, FormatXLSX, orders))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1001-1-0", rows[1][0])
	assert.Equal(t, "Ramesh", rows[1][6])
}
