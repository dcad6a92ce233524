package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/services"
)

// queryValues значения параметра: повторяющиеся и через запятую.
func queryValues(r *http.Request, name string) []string {
	var values []string
	for _, raw := range r.URL.Query()[name] {
		for _, value := range strings.Split(raw, ",") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}
	return values
}

func parseStatuses(r *http.Request) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	for _, value := range queryValues(r, "status") {
		status := models.OrderStatus(value)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: неизвестный статус %q", services.ErrValidation, value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// parseFilter собирает фильтр из ?status=&type=&q=.
func parseFilter(r *http.Request) (models.OrderFilter, error) {
	statuses, err := parseStatuses(r)
	if err != nil {
		return models.OrderFilter{}, err
	}

	var types []models.OrderType
	for _, value := range queryValues(r, "type") {
		orderType, ok := models.ParseOrderType(value)
		if !ok {
			return models.OrderFilter{}, fmt.Errorf("%w: неизвестный тип заказа %q", services.ErrValidation, value)
		}
		types = append(types, orderType)
	}

	return models.OrderFilter{
		Statuses: statuses,
		Types:    types,
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}, nil
}
