package models

import "github.com/shopspring/decimal"

// DesignSummary строка сводки по дизайну: сколько заказов, штук и какой общий вес.
type DesignSummary struct {
	Design      string          `json:"design"`
	GenericName *string         `json:"genericName"`
	KarigarName *string         `json:"karigarName"`
	Orders      int             `json:"orders"`
	Quantity    int64           `json:"quantity"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
	OrderIDs    []string        `json:"orderIds"`
}
