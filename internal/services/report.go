package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/sheet"
	"github.com/shopspring/decimal"
)

// weightPlaces точность веса в граммах.
const weightPlaces = 3

// ReportService выгрузки и сводки по заказам.
type ReportService struct {
	orders orderLister
}

type orderLister interface {
	GetOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
}

func NewReportService(orders orderLister) *ReportService {
	return &ReportService{orders: orders}
}

// ExportOrders пишет заказы по фильтру в xlsx или csv.
func (rs *ReportService) ExportOrders(ctx context.Context, filter models.OrderFilter, format string, w io.Writer) error {
	sheetFormat, err := sheet.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	orders, err := rs.orders.GetOrders(ctx, filter)
	if err != nil {
		return err
	}

	return sheet.WriteOrders(w, sheetFormat, orders)
}

// DesignSummary группирует заказы по дизайну: число заказов, штук и суммарный вес.
func (rs *ReportService) DesignSummary(ctx context.Context, filter models.OrderFilter) ([]models.DesignSummary, error) {
	orders, err := rs.orders.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*models.DesignSummary)
	for _, order := range orders {
		group, ok := groups[order.Design]
		if !ok {
			group = &models.DesignSummary{
				Design:      order.Design,
				TotalWeight: decimal.Zero,
				OrderIDs:    []string{},
			}
			groups[order.Design] = group
		}

		group.Orders++
		group.Quantity += order.Quantity
		group.TotalWeight = group.TotalWeight.Add(decimal.NewFromFloat(order.Weight))
		group.OrderIDs = append(group.OrderIDs, order.OrderID)
		if group.GenericName == nil {
			group.GenericName = order.GenericName
		}
		if group.KarigarName == nil {
			group.KarigarName = order.KarigarName
		}
	}

	result := make([]models.DesignSummary, 0, len(groups))
	for _, group := range groups {
		group.TotalWeight = group.TotalWeight.Round(weightPlaces)
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Design < result[j].Design
	})
	return result, nil
}
