// Package sheet читает и пишет табличные файлы заказов и справочника дизайнов (xlsx и csv).
package sheet

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

var (
	ErrUnsupportedFormat = errors.New("поддерживаются только файлы .xlsx и .csv")
	ErrNoHeader          = errors.New("в файле нет строки заголовков")
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat определяет формат по расширению имени файла.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "файл %q", filename)
}

// ParseFormat разбирает формат из параметра запроса. Пустое значение означает xlsx.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "формат %q", value)
}

// ReadOrders читает файл целиком и превращает строки под заголовком в строки разбора.
// Ячейки связываются с заголовками первой строки, лишние ячейки без заголовка отбрасываются.
func ReadOrders(r io.Reader, format Format) ([]ingest.Row, error) {
	grid, err := readGrid(r, format)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(cell.Text, "\ufeff"))
	}

	rows := make([]ingest.Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		row := ingest.NewRow(i)
		for j, header := range headers {
			var cell ingest.Cell
			if j < len(cells) {
				cell = cells[j]
			}
			row.Set(header, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadMappings читает справочник дизайнов строго по позиции колонок:
// A код дизайна, B общее название, C каригар. Первая строка всегда считается заголовком.
// Строки без кода пропускаются.
func ReadMappings(r io.Reader, format Format) ([]models.DesignMapping, error) {
	grid, err := readGrid(r, format)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}

	column := func(cells []ingest.Cell, i int) string {
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i].Text)
	}

	mappings := make([]models.DesignMapping, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		code := column(cells, 0)
		if code == "" {
			continue
		}
		mappings = append(mappings, models.DesignMapping{
			DesignCode:  code,
			GenericName: column(cells, 1),
			KarigarName: column(cells, 2),
		})
	}
	return mappings, nil
}

func readGrid(r io.Reader, format Format) ([][]ingest.Cell, error) {
	switch format {
	case FormatXLSX:
		return readWorkbook(r)
	case FormatCSV:
		return readCSV(r)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "формат %q", format)
}

// readWorkbook читает первый лист книги. Числовые ячейки отдаются числами без форматирования,
// чтобы даты в виде серийных номеров дошли до разбора дат как есть.
func readWorkbook(r io.Reader) (grid [][]ingest.Cell, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "не удалось открыть книгу")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(f.Close(), "не удалось закрыть книгу"))
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	sheetName := sheets[0]

	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "не удалось прочитать лист %q", sheetName)
	}

	grid = make([][]ingest.Cell, len(values))
	for i, row := range values {
		cells := make([]ingest.Cell, len(row))
		for j, value := range row {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, errors.Wrap(err, "неверные координаты ячейки")
			}
			cellType, err := f.GetCellType(sheetName, name)
			if err != nil {
				return nil, errors.Wrapf(err, "не удалось определить тип ячейки %s", name)
			}
			cells[j] = workbookCell(value, cellType)
		}
		grid[i] = cells
	}
	return grid, nil
}

func workbookCell(value string, cellType excelize.CellType) ingest.Cell {
	if cellType == excelize.CellTypeNumber || cellType == excelize.CellTypeUnset {
		if number, err := strconv.ParseFloat(value, 64); err == nil {
			return ingest.NumberCell(number)
		}
	}
	return ingest.TextCell(value)
}

// readCSV читает csv целиком. Все ячейки текстовые.
func readCSV(r io.Reader) ([][]ingest.Cell, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "не удалось прочитать csv")
	}

	grid := make([][]ingest.Cell, len(records))
	for i, record := range records {
		cells := make([]ingest.Cell, len(record))
		for j, value := range record {
			cells[j] = ingest.TextCell(value)
		}
		grid[i] = cells
	}
	return grid, nil
}
