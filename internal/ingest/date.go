package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	isoPrefix       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Последний шанс: форматы, которые встречаются в выгрузках вручную.
// Неоднозначные записи вроде 03/04/2025 сюда не доходят, их разбирает шаблон ДД/ММ.
var fallbackLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006/1/2",
	"02.01.2006",
	"2.1.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	time.RFC1123,
	time.RFC1123Z,
}

const (
	minYear = 1900
	// 9999-12-31 в сериальной нумерации таблиц.
	maxSerial = 2958465
	// В эпохе таблиц есть несуществующее 29.02.1900 с номером 60.
	phantomLeapDaySerial = 60
)

var serialEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// ResolveOrderDate ищет дату заказа по псевдонимам столбцов и разбирает её.
// Возвращает nil, если ни одно значение не удалось разобрать. Результат всегда в UTC.
func ResolveOrderDate(row Row) *time.Time {
	for _, alias := range dateAliases {
		for _, nc := range row.cells {
			if nc.key != alias || nc.cell.Empty() {
				continue
			}
			if t, ok := resolveCell(nc.cell); ok {
				return &t
			}
			// Первое заполненное значение решает, дальше не ищем.
			return nil
		}
	}
	return nil
}

func resolveCell(cell Cell) (time.Time, bool) {
	switch cell.Kind {
	case KindText:
		return ParseDateText(cell.Text)
	case KindNumber:
		return FromSerial(cell.Number)
	case KindTime:
		if cell.Time.IsZero() {
			return time.Time{}, false
		}
		return cell.Time.UTC(), true
	}
	return time.Time{}, false
}

// ParseDateText разбирает дату из строки: сначала ДД/ММ/ГГГГ или ДД-ММ-ГГГГ,
// затем ISO, затем набор общих форматов.
func ParseDateText(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := dayFirstPattern.FindStringSubmatch(value); m != nil {
		if t, ok := dayFirst(m[1], m[2], m[3]); ok {
			return t, true
		}
		// Строка похожа на ДД/ММ, но дата невалидна: например 31/02/2024.
		// Перебирать другие форматы для неё нельзя, иначе 31/02 превратится в чужую дату.
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month <= 12 || day > 12 {
			return time.Time{}, false
		}
	}

	if isoPrefix.MatchString(value) {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), true
			}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func dayFirst(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)

	if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует 31.02 в 02.03, поэтому сверяем обратно.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}

	return t, true
}

// FromSerial переводит сериальный номер дня таблицы в момент времени.
// Дробная часть задаёт время суток. Нулевые, отрицательные и нечисловые значения отвергаются,
// как и номер 60: такого дня (29.02.1900) не было.
func FromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= 0 || serial >= maxSerial+1 {
		return time.Time{}, false
	}

	days := math.Floor(serial)
	if days == phantomLeapDaySerial {
		return time.Time{}, false
	}
	if days > phantomLeapDaySerial {
		serial--
		days--
	}

	fraction := serial - days
	t := serialEpoch.AddDate(0, 0, int(days))
	t = t.Add(time.Duration(math.Round(fraction*86400*1000)) * time.Millisecond)

	return t, true
}
