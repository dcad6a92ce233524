package lifecycle

import (
	"errors"
	"fmt"

	"github.com/Renal37/karigar-desk/internal/models"
)

// ErrIllegalTransition общий признак запрещённого перехода для errors.Is.
var ErrIllegalTransition = errors.New("недопустимый переход состояния заказа")

// IllegalTransitionError переход, условие которого не выполнено. Заказ при этом не меняется.
type IllegalTransitionError struct {
	OrderID string
	Status  models.OrderStatus
	Event   models.Event
	Reason  string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("заказ %s в статусе %s: %s недопустим: %s", e.OrderID, e.Status, e.Event, e.Reason)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

func illegal(order models.Order, event models.Event, reason string) error {
	return &IllegalTransitionError{
		OrderID: order.OrderID,
		Status:  order.Status,
		Event:   event,
		Reason:  reason,
	}
}
