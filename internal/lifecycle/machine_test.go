package lifecycle

import (
	"testing"
	"time"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func testMachine() *Machine {
	return NewWithClock(func() time.Time { return now }, func() string { return "abcd1234" })
}

func rbOrder(quantity int64) models.Order {
	karigar := "Ramesh"
	created := utils.RFC3339Date{Time: now.Add(-time.Hour)}
	return models.Order{
		OrderID:     "5001-1700000000000-0",
		OrderNo:     "5001",
		OrderType:   models.TypeRB,
		Product:     "Bangle",
		Design:      "BG-3",
		Weight:      20,
		Size:        2.6,
		Quantity:    quantity,
		Status:      models.StatusPending,
		KarigarName: &karigar,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestSupplySplitConservesQuantity(t *testing.T) {
	for _, supplied := range []int64{1, 3, 9} {
		order := rbOrder(10)
		out, err := testMachine().Supply(order, supplied)
		require.NoError(t, err)
		require.NotNil(t, out.Split)

		assert.Equal(t, order.OrderID, out.Order.OrderID)
		assert.Equal(t, models.StatusReady, out.Order.Status)
		assert.Equal(t, supplied, out.Order.Quantity)

		split := out.Split
		assert.Equal(t, "5001-1772357400000-abcd1234", split.OrderID)
		assert.NotEqual(t, order.OrderID, split.OrderID)
		assert.Equal(t, models.StatusPending, split.Status)
		assert.Equal(t, order.Quantity-supplied, split.Quantity)
		assert.Equal(t, order.Quantity, out.Order.Quantity+split.Quantity)
		assert.Equal(t, order.Design, split.Design)
		assert.Equal(t, order.Product, split.Product)
		assert.Equal(t, order.KarigarName, split.KarigarName)

		assert.Equal(t, int64(10), order.Quantity, "исходный заказ не должен меняться")
		assert.Equal(t, models.StatusPending, order.Status)
	}
}

func TestSupplyFullQuantityDoesNotSplit(t *testing.T) {
	out, err := testMachine().Supply(rbOrder(4), 4)
	require.NoError(t, err)

	assert.Nil(t, out.Split)
	assert.Equal(t, models.StatusReady, out.Order.Status)
	assert.Equal(t, int64(4), out.Order.Quantity)
	assert.Equal(t, now, out.Order.UpdatedAt.Time)
}

func TestSupplyGuards(t *testing.T) {
	co := rbOrder(5)
	co.OrderType = models.TypeCO

	ready := rbOrder(5)
	ready.Status = models.StatusReady

	testCases := []struct {
		testName string
		order    models.Order
		supplied int64
	}{
		{testName: "больше заказанного", order: rbOrder(5), supplied: 6},
		{testName: "ноль", order: rbOrder(5), supplied: 0},
		{testName: "отрицательное", order: rbOrder(5), supplied: -2},
		{testName: "не RB", order: co, supplied: 2},
		{testName: "не в очереди", order: ready, supplied: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			_, err := testMachine().Supply(tc.order, tc.supplied)

			var illegalErr *IllegalTransitionError
			require.ErrorAs(t, err, &illegalErr)
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, models.EventSupply, illegalErr.Event)
		})
	}
}

func TestSupplyFromReturnFromHallmark(t *testing.T) {
	order := rbOrder(6)
	order.Status = models.StatusReturnFromHallmark

	out, err := testMachine().Supply(order, 2)
	require.NoError(t, err)
	require.NotNil(t, out.Split)
	assert.Equal(t, int64(4), out.Split.Quantity)
}

func TestStatusFlow(t *testing.T) {
	m := testMachine()
	order := rbOrder(2)
	order.OrderType = models.TypeCO

	steps := []struct {
		event    models.Event
		expected models.OrderStatus
	}{
		{models.EventMarkReady, models.StatusReady},
		{models.EventMoveBackToPending, models.StatusPending},
		{models.EventMarkReady, models.StatusReady},
		{models.EventSendToHallmark, models.StatusHallmark},
		{models.EventReturnFromHallmark, models.StatusReturnFromHallmark},
		{models.EventMarkReady, models.StatusReady},
	}

	for _, step := range steps {
		out, err := m.Apply(order, models.Transition{Event: step.event})
		require.NoError(t, err, step.event)
		assert.Equal(t, step.expected, out.Order.Status, step.event)
		order = out.Order
	}
}

func TestIllegalMoves(t *testing.T) {
	m := testMachine()
	pending := rbOrder(1)

	for _, event := range []models.Event{models.EventSendToHallmark, models.EventReturnFromHallmark, models.EventMoveBackToPending, "polish"} {
		_, err := m.Apply(pending, models.Transition{Event: event})
		assert.ErrorIs(t, err, ErrIllegalTransition, event)
	}

	hallmark := rbOrder(1)
	hallmark.Status = models.StatusHallmark
	_, err := m.MarkReady(hallmark)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestReassignKarigar(t *testing.T) {
	m := testMachine()

	out, err := m.ReassignKarigar(rbOrder(3), " Suresh ")
	require.NoError(t, err)
	require.NotNil(t, out.Order.KarigarName)
	assert.Equal(t, "Suresh", *out.Order.KarigarName)
	assert.Equal(t, models.StatusPending, out.Order.Status)

	_, err = m.ReassignKarigar(rbOrder(3), "  ")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	for _, status := range []models.OrderStatus{models.StatusReady, models.StatusHallmark, models.StatusReturnFromHallmark} {
		order := rbOrder(3)
		order.Status = status
		before := *order.KarigarName

		_, err := m.ReassignKarigar(order, "Suresh")

		var illegalErr *IllegalTransitionError
		require.ErrorAs(t, err, &illegalErr, status)
		assert.Equal(t, status, illegalErr.Status)
		assert.Equal(t, before, *order.KarigarName)
		assert.Equal(t, status, order.Status)
	}
}

func TestReset(t *testing.T) {
	for _, status := range models.Statuses {
		order := rbOrder(1)
		order.Status = status

		out, err := Reset(order)
		if status == models.StatusPending || status == models.StatusReturnFromHallmark {
			require.NoError(t, err)
			assert.True(t, out.Deleted)
			continue
		}
		assert.ErrorIs(t, err, ErrIllegalTransition)
	}
}

func TestAllowed(t *testing.T) {
	order := rbOrder(1)
	assert.Equal(t, []models.Event{models.EventMarkReady, models.EventSupply, models.EventReassignKarigar, models.EventBulkReset}, Allowed(order))

	order.OrderType = models.TypeSO
	order.Status = models.StatusReturnFromHallmark
	assert.Equal(t, []models.Event{models.EventMarkReady, models.EventBulkReset}, Allowed(order))

	order.Status = models.StatusHallmark
	assert.Equal(t, []models.Event{models.EventReturnFromHallmark}, Allowed(order))
}
