// Package mapping разрешает код дизайна в общее название изделия и каригара по умолчанию.
package mapping

import (
	"sort"
	"strings"

	"github.com/Renal37/karigar-desk/internal/design"
	"github.com/Renal37/karigar-desk/internal/models"
)

// Resolution найденные по коду значения. Пустое значение в справочнике считается отсутствующим.
type Resolution struct {
	GenericName *string
	KarigarName *string
}

// Mapped сообщает, что по коду известны оба значения.
func (r Resolution) Mapped() bool {
	return r.GenericName != nil && r.KarigarName != nil
}

// Table неизменяемый снимок справочника дизайнов, ключ нормализованный код.
type Table struct {
	entries map[string]models.DesignMapping
}

// NewTable строит таблицу. При повторе кода побеждает последняя запись.
func NewTable(mappings []models.DesignMapping) *Table {
	entries := make(map[string]models.DesignMapping, len(mappings))
	for _, m := range mappings {
		code := design.Normalize(m.DesignCode)
		if code == "" {
			continue
		}
		m.DesignCode = code
		m.GenericName = strings.TrimSpace(m.GenericName)
		m.KarigarName = strings.TrimSpace(m.KarigarName)
		entries[code] = m
	}
	return &Table{entries: entries}
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup ищет запись по коду в любом регистре.
func (t *Table) Lookup(code string) (models.DesignMapping, bool) {
	m, ok := t.entries[design.Normalize(code)]
	return m, ok
}

// Resolve возвращает название и каригара для кода. Для неизвестного кода оба поля nil.
func (t *Table) Resolve(code string) Resolution {
	m, ok := t.Lookup(code)
	if !ok {
		return Resolution{}
	}
	return Resolution{
		GenericName: models.StringPtr(m.GenericName),
		KarigarName: models.StringPtr(m.KarigarName),
	}
}

// Enrich дополняет заказ значениями из справочника по каждому полю отдельно.
// Явно заданные в заказе значения не перезаписываются.
func (t *Table) Enrich(order models.Order) models.Order {
	return Enrich(order, t.Resolve(order.Design))
}

// IsUnmapped сообщает, что после обогащения у заказа нет названия или каригара.
func (t *Table) IsUnmapped(order models.Order) bool {
	return IsUnmapped(t.Enrich(order))
}

// Enrich дополняет заказ готовым результатом разрешения.
func Enrich(order models.Order, res Resolution) models.Order {
	if models.StringPtr(models.StringValue(order.GenericName)) == nil {
		order.GenericName = res.GenericName
	}
	if models.StringPtr(models.StringValue(order.KarigarName)) == nil {
		order.KarigarName = res.KarigarName
	}
	return order
}

// IsUnmapped проверяет уже обогащённый заказ.
func IsUnmapped(order models.Order) bool {
	return models.StringPtr(models.StringValue(order.GenericName)) == nil ||
		models.StringPtr(models.StringValue(order.KarigarName)) == nil
}

// UnmappedReport группирует заказы без названия или каригара по коду дизайна.
// Заказы должны быть уже обогащены. Группы отсортированы по коду.
func UnmappedReport(orders []models.Order) []models.UnmappedGroup {
	groups := make(map[string]*models.UnmappedGroup)
	for _, order := range orders {
		if !IsUnmapped(order) {
			continue
		}

		code := design.Normalize(order.Design)
		group, ok := groups[code]
		if !ok {
			group = &models.UnmappedGroup{DesignCode: code, OrderIDs: []string{}}
			groups[code] = group
		}

		group.Count++
		group.OrderIDs = append(group.OrderIDs, order.OrderID)
		if models.StringPtr(models.StringValue(order.GenericName)) == nil {
			group.MissingGenericName = true
		}
		if models.StringPtr(models.StringValue(order.KarigarName)) == nil {
			group.MissingKarigarName = true
		}
	}

	report := make([]models.UnmappedGroup, 0, len(groups))
	for _, group := range groups {
		report = append(report, *group)
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].DesignCode < report[j].DesignCode
	})
	return report
}

// UnmappedReport обогащает заказы по таблице и строит отчёт.
func (t *Table) UnmappedReport(orders []models.Order) []models.UnmappedGroup {
	enriched := make([]models.Order, len(orders))
	for i, order := range orders {
		enriched[i] = t.Enrich(order)
	}
	return UnmappedReport(enriched)
}
