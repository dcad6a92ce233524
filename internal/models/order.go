package models

import (
	"strings"

	"github.com/Renal37/karigar-desk/internal/utils"
)

type OrderStatus string

const (
	StatusPending            OrderStatus = "Pending"
	StatusReady              OrderStatus = "Ready"
	StatusHallmark           OrderStatus = "Hallmark"
	StatusReturnFromHallmark OrderStatus = "ReturnFromHallmark"
)

// Statuses перечисляет все допустимые статусы в порядке прохождения заказа.
var Statuses = []OrderStatus{StatusPending, StatusReady, StatusHallmark, StatusReturnFromHallmark}

// Valid сообщает, является ли значение одним из известных статусов.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// InWorkQueue сообщает, находится ли заказ в очереди работы каригара.
// Заказ, вернувшийся с хольмарка, снова попадает в очередь наравне с Pending.
func (s OrderStatus) InWorkQueue() bool {
	return s == StatusPending || s == StatusReturnFromHallmark
}

type OrderType string

const (
	TypeCO OrderType = "CO" // заказ клиента
	TypeRB OrderType = "RB" // пополнение / оптовый заказ
	TypeSO OrderType = "SO" // заказ на склад
)

// ParseOrderType приводит значение к верхнему регистру и проверяет, что это CO, RB или SO.
func ParseOrderType(value string) (OrderType, bool) {
	t := OrderType(strings.ToUpper(strings.TrimSpace(value)))
	switch t {
	case TypeCO, TypeRB, TypeSO:
		return t, true
	}
	return t, false
}

// Order единица работы для одного дизайна и количества.
type Order struct {
	OrderID     string             `json:"orderId"`
	OrderNo     string             `json:"orderNo"`
	OrderType   OrderType          `json:"orderType"`
	Product     string             `json:"product"`
	Design      string             `json:"design"`
	Weight      float64            `json:"weight"`
	Size        float64            `json:"size"`
	Quantity    int64              `json:"quantity"`
	Remarks     string             `json:"remarks"`
	Status      OrderStatus        `json:"status"`
	GenericName *string            `json:"genericName"`
	KarigarName *string            `json:"karigarName"`
	OrderDate   *utils.RFC3339Date `json:"orderDate,omitempty"`
	CreatedAt   utils.RFC3339Date  `json:"createdAt"`
	UpdatedAt   utils.RFC3339Date  `json:"updatedAt"`
	// Actions действия, доступные оператору в текущем статусе. Не хранится.
	Actions []Event `json:"actions,omitempty"`
}

// OrderFilter параметры выборки заказов. Пустые поля не ограничивают выборку.
type OrderFilter struct {
	Statuses []OrderStatus
	Types    []OrderType
	Search   string
}

// NewOrder тело запроса на ручное создание заказа.
type NewOrder struct {
	OrderNo     string  `json:"orderNo" validate:"required"`
	OrderType   string  `json:"orderType" validate:"required,oneof=CO RB SO co rb so"`
	Product     string  `json:"product" validate:"required"`
	Design      string  `json:"design" validate:"required"`
	Weight      float64 `json:"weight" validate:"gt=0"`
	Size        float64 `json:"size" validate:"gt=0"`
	Quantity    int64   `json:"quantity" validate:"gt=0"`
	Remarks     string  `json:"remarks"`
	KarigarName string  `json:"karigarName"`
	OrderDate   string  `json:"orderDate"`
}

// StringPtr возвращает указатель на обрезанную строку или nil для пустой.
func StringPtr(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// StringValue разыменовывает указатель, подставляя пустую строку вместо nil.
func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
