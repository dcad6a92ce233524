// Package lifecycle описывает допустимые переходы заказа между статусами.
//
//	Pending ──markReady / supply(Q)──▶ Ready ──sendToHallmark──▶ Hallmark ──returnFromHallmark──▶ ReturnFromHallmark
//	   ▲                                 │
//	   └──────── moveBackToPending ──────┘
//
// ReturnFromHallmark снова попадает в очередь работы: из него доступны markReady и supply.
// Частичная поставка RB-заказа делит его на Ready(s) и новый Pending(Q-s).
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/google/uuid"
)

// Outcome результат перехода. Order всегда содержит изменённый исходный заказ,
// Split заполнен только при частичной поставке, Deleted только при сбросе.
type Outcome struct {
	Order   models.Order
	Split   *models.Order
	Deleted bool
}

type Machine struct {
	now    func() time.Time
	suffix func() string
}

// New создаёт автомат с системными часами и случайными суффиксами идентификаторов.
func New() *Machine {
	return NewWithClock(time.Now, RandomSuffix)
}

// NewWithClock позволяет подменить часы и генератор суффиксов.
func NewWithClock(now func() time.Time, suffix func() string) *Machine {
	return &Machine{now: now, suffix: suffix}
}

// RandomSuffix восемь шестнадцатеричных символов для уникальности идентификатора заказа.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Apply применяет переход к копии заказа. При ошибке возвращается *IllegalTransitionError,
// а переданный заказ остаётся прежним.
func (m *Machine) Apply(order models.Order, tr models.Transition) (Outcome, error) {
	switch tr.Event {
	case models.EventMarkReady:
		return m.MarkReady(order)
	case models.EventSupply:
		return m.Supply(order, tr.Quantity)
	case models.EventSendToHallmark:
		return m.move(order, tr.Event, models.StatusReady, models.StatusHallmark)
	case models.EventReturnFromHallmark:
		return m.move(order, tr.Event, models.StatusHallmark, models.StatusReturnFromHallmark)
	case models.EventMoveBackToPending:
		return m.move(order, tr.Event, models.StatusReady, models.StatusPending)
	case models.EventReassignKarigar:
		return m.ReassignKarigar(order, tr.KarigarName)
	case models.EventBulkReset:
		return Reset(order)
	}
	return Outcome{}, illegal(order, tr.Event, "неизвестное действие")
}

// MarkReady переводит заказ из очереди в Ready на всё количество.
// Для RB это то же самое, что поставка полного количества.
func (m *Machine) MarkReady(order models.Order) (Outcome, error) {
	if !order.Status.InWorkQueue() {
		return Outcome{}, illegal(order, models.EventMarkReady, "заказ не в очереди работы")
	}
	return Outcome{Order: m.touch(order, models.StatusReady)}, nil
}

// Supply фиксирует поставку части RB-заказа. Поставка полного количества переводит заказ в Ready,
// частичная оставляет исходный идентификатор за поставленной частью и создаёт Pending-заказ на остаток.
func (m *Machine) Supply(order models.Order, supplied int64) (Outcome, error) {
	if !order.Status.InWorkQueue() {
		return Outcome{}, illegal(order, models.EventSupply, "заказ не в очереди работы")
	}
	if order.OrderType != models.TypeRB {
		return Outcome{}, illegal(order, models.EventSupply, "поставка частями только для RB, используйте markReady")
	}
	if supplied <= 0 || supplied > order.Quantity {
		return Outcome{}, illegal(order, models.EventSupply,
			fmt.Sprintf("поставлено %d, а должно быть от 1 до %d", supplied, order.Quantity))
	}

	ready := m.touch(order, models.StatusReady)
	if supplied == order.Quantity {
		return Outcome{Order: ready}, nil
	}

	remaining := order.Quantity - supplied
	ready.Quantity = supplied

	now := ready.UpdatedAt
	split := order
	split.OrderID = fmt.Sprintf("%s-%d-%s", order.OrderNo, now.UnixMilli(), m.suffix())
	split.Quantity = remaining
	split.Status = models.StatusPending
	split.CreatedAt = now
	split.UpdatedAt = now

	return Outcome{Order: ready, Split: &split}, nil
}

// ReassignKarigar меняет только каригара и только пока заказ в Pending.
func (m *Machine) ReassignKarigar(order models.Order, karigar string) (Outcome, error) {
	if order.Status != models.StatusPending {
		return Outcome{}, illegal(order, models.EventReassignKarigar, "переназначить можно только заказ в Pending")
	}
	name := models.StringPtr(karigar)
	if name == nil {
		return Outcome{}, illegal(order, models.EventReassignKarigar, "не указан каригар")
	}

	updated := m.touch(order, order.Status)
	updated.KarigarName = name
	return Outcome{Order: updated}, nil
}

// Reset разрешает удаление заказа при сбросе очереди: только Pending и ReturnFromHallmark.
func Reset(order models.Order) (Outcome, error) {
	if !CanReset(order.Status) {
		return Outcome{}, illegal(order, models.EventBulkReset, "сбрасываются только Pending и ReturnFromHallmark")
	}
	return Outcome{Order: order, Deleted: true}, nil
}

// CanReset статусы, которые можно удалить сбросом.
func CanReset(status models.OrderStatus) bool {
	return status.InWorkQueue()
}

// Allowed список действий, которые сейчас доступны для заказа.
func Allowed(order models.Order) []models.Event {
	var events []models.Event
	switch order.Status {
	case models.StatusPending, models.StatusReturnFromHallmark:
		events = append(events, models.EventMarkReady)
		if order.OrderType == models.TypeRB {
			events = append(events, models.EventSupply)
		}
		if order.Status == models.StatusPending {
			events = append(events, models.EventReassignKarigar)
		}
		events = append(events, models.EventBulkReset)
	case models.StatusReady:
		events = append(events, models.EventSendToHallmark, models.EventMoveBackToPending)
	case models.StatusHallmark:
		events = append(events, models.EventReturnFromHallmark)
	}
	return events
}

func (m *Machine) move(order models.Order, event models.Event, from, to models.OrderStatus) (Outcome, error) {
	if order.Status != from {
		return Outcome{}, illegal(order, event, fmt.Sprintf("ожидался статус %s", from))
	}
	return Outcome{Order: m.touch(order, to)}, nil
}

func (m *Machine) touch(order models.Order, status models.OrderStatus) models.Order {
	order.Status = status
	order.UpdatedAt = utils.RFC3339Date{Time: m.now()}
	return order
}
