// Package design содержит работу с кодами дизайнов изделий.
package design

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize приводит код дизайна к каноническому виду: без пробелов по краям и в верхнем регистре.
// Применяется везде, где код читается из внешнего источника, чтобы строки заказов,
// строки мастер-таблицы и ключи поиска совпадали.
func Normalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}

	// Caser хранит состояние, поэтому создаётся на каждый вызов.
	return cases.Upper(language.Und).String(trimmed)
}

// Equal сравнивает два кода после нормализации.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
