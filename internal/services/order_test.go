package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/lifecycle"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func newTestOrderService(t *testing.T, storage *memoryStorage) *OrderService {
	t.Helper()

	mappings, err := NewMappingService(storage, 16)
	require.NoError(t, err)

	service := NewOrderService(storage, mappings, 2)
	service.now = fixedClock
	service.suffix = func() string { return "abcd" }
	service.machine = lifecycle.NewWithClock(fixedClock, func() string { return "split" })
	return service
}

func seedOrder(storage *memoryStorage, id string, orderType models.OrderType, status models.OrderStatus, quantity int64) {
	storage.orders[id] = database.OrderDB{
		ID:        id,
		OrderNo:   "N" + id,
		OrderType: string(orderType),
		Product:   "Bangle",
		Design:    "C 1",
		Weight:    20,
		Size:      2.6,
		Quantity:  quantity,
		Status:    database.OrderStatusDB{OrderStatus: status},
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}
}

func TestCreateOrder(t *testing.T) {
	storage := newMemoryStorage()
	storage.mappings["A-12"] = database.DesignMappingDB{DesignCode: "A-12", GenericName: "Ring", KarigarName: "Ravi"}
	service := newTestOrderService(t, storage)

	order, err := service.CreateOrder(context.Background(), models.NewOrder{
		OrderNo:   "5001",
		OrderType: "co",
		Product:   "Ring",
		Design:    " a-12 ",
		Weight:    4.5,
		Size:      12,
		Quantity:  1,
		OrderDate: "2026-10-01",
	})
	require.NoError(t, err)

	wantID := fmt.Sprintf("5001-%d-abcd", testNow.UnixMilli())
	assert.Equal(t, wantID, order.OrderID)
	assert.Equal(t, models.TypeCO, order.OrderType)
	assert.Equal(t, "A-12", order.Design)
	assert.Equal(t, models.StatusPending, order.Status)
	require.NotNil(t, order.GenericName)
	assert.Equal(t, "Ring", *order.GenericName)
	require.NotNil(t, order.KarigarName)
	assert.Equal(t, "Ravi", *order.KarigarName)
	require.NotNil(t, order.OrderDate)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), order.OrderDate.Time)
	assert.Equal(t, []models.Event{models.EventMarkReady, models.EventReassignKarigar, models.EventBulkReset}, order.Actions)

	// в хранилище попадают только явные значения, справочник подставляется при чтении
	stored, ok := storage.order(wantID)
	require.True(t, ok)
	assert.Nil(t, stored.GenericName)
	assert.Nil(t, stored.KarigarName)
	assert.Equal(t, "A-12", stored.Design)
}

func TestCreateOrderValidation(t *testing.T) {
	valid := models.NewOrder{
		OrderNo:   "5001",
		OrderType: "CO",
		Product:   "Ring",
		Design:    "A-12",
		Weight:    4.5,
		Size:      12,
		Quantity:  1,
	}

	testCases := []struct {
		testName string
		mutate   func(o *models.NewOrder)
	}{
		{
			testName: "Should reject unknown type",
			mutate:   func(o *models.NewOrder) { o.OrderType = "XX" },
		},
		{
			testName: "Should reject zero quantity",
			mutate:   func(o *models.NewOrder) { o.Quantity = 0 },
		},
		{
			testName: "Should reject blank design",
			mutate:   func(o *models.NewOrder) { o.Design = "   " },
		},
		{
			testName: "Should reject unreadable date",
			mutate:   func(o *models.NewOrder) { o.OrderDate = "когда-нибудь" },
		},
		{
			testName: "Should reject missing order number",
			mutate:   func(o *models.NewOrder) { o.OrderNo = "" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			storage := newMemoryStorage()
			service := newTestOrderService(t, storage)

			input := valid
			tc.mutate(&input)

			_, err := service.CreateOrder(context.Background(), input)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, storage.orders)
		})
	}
}

func TestSubmitRejectsEmptyQuantity(t *testing.T) {
	storage := newMemoryStorage()
	service := newTestOrderService(t, storage)

	err := service.Submit(context.Background(), models.Order{OrderID: "x", Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, storage.upsertedCount)
}

func TestApplyTransitionSupplySplit(t *testing.T) {
	storage := newMemoryStorage()
	seedOrder(storage, "r1", models.TypeRB, models.StatusPending, 6)
	service := newTestOrderService(t, storage)

	result, err := service.ApplyTransition(context.Background(), "r1", models.Transition{
		Event:    models.EventSupply,
		Quantity: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "r1", result.Order.OrderID)
	assert.Equal(t, models.StatusReady, result.Order.Status)
	assert.Equal(t, int64(2), result.Order.Quantity)
	assert.Equal(t, []models.Event{models.EventSendToHallmark, models.EventMoveBackToPending}, result.Order.Actions)

	require.NotNil(t, result.Split)
	assert.Equal(t, fmt.Sprintf("Nr1-%d-split", testNow.UnixMilli()), result.Split.OrderID)
	assert.Equal(t, models.StatusPending, result.Split.Status)
	assert.Equal(t, int64(4), result.Split.Quantity)

	ready, ok := storage.order("r1")
	require.True(t, ok)
	rest, ok := storage.order(result.Split.OrderID)
	require.True(t, ok)
	assert.Equal(t, int64(6), ready.Quantity+rest.Quantity)
	assert.Equal(t, models.StatusReady, ready.Status.OrderStatus)
	assert.Equal(t, models.StatusPending, rest.Status.OrderStatus)
}

func TestKarigarsRegisteredFromOrders(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	seedOrder(storage, "p1", models.TypeCO, models.StatusPending, 1)
	service := newTestOrderService(t, storage)
	mappings := newTestMappingService(t, storage)

	result, err := service.ApplyTransition(ctx, "p1", models.Transition{
		Event:       models.EventReassignKarigar,
		KarigarName: " Suresh ",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order.KarigarName)
	assert.Equal(t, "Suresh", *result.Order.KarigarName)

	_, err = service.CreateOrder(ctx, models.NewOrder{
		OrderNo:     "5001",
		OrderType:   "SO",
		Product:     "Ring",
		Design:      "a-12",
		Weight:      4.5,
		Size:        12,
		Quantity:    1,
		KarigarName: "Anil",
	})
	require.NoError(t, err)

	karigars, err := mappings.GetKarigars(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Karigar{{Name: "Anil"}, {Name: "Suresh"}}, karigars)
}

func TestApplyTransitionErrors(t *testing.T) {
	testCases := []struct {
		testName   string
		orderID    string
		transition models.Transition
		prepare    func(s *memoryStorage)
		wantErr    error
	}{
		{
			testName:   "Should report missing order",
			orderID:    "missing",
			transition: models.Transition{Event: models.EventMarkReady},
			wantErr:    ErrOrderNotFound,
		},
		{
			testName:   "Should reject illegal transition",
			orderID:    "p1",
			transition: models.Transition{Event: models.EventSendToHallmark},
			wantErr:    lifecycle.ErrIllegalTransition,
		},
		{
			testName:   "Should reject supply for CO",
			orderID:    "c1",
			transition: models.Transition{Event: models.EventSupply, Quantity: 1},
			wantErr:    lifecycle.ErrIllegalTransition,
		},
		{
			testName:   "Should reject supply above quantity",
			orderID:    "r1",
			transition: models.Transition{Event: models.EventSupply, Quantity: 7},
			wantErr:    lifecycle.ErrIllegalTransition,
		},
		{
			testName:   "Should reject unknown event",
			orderID:    "p1",
			transition: models.Transition{Event: "fly"},
			wantErr:    ErrValidation,
		},
		{
			testName:   "Should report concurrent change",
			orderID:    "p1",
			transition: models.Transition{Event: models.EventMarkReady},
			prepare:    func(s *memoryStorage) { s.conflicts["p1"] = true },
			wantErr:    ErrOrderChanged,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			storage := newMemoryStorage()
			seedOrder(storage, "p1", models.TypeCO, models.StatusPending, 1)
			seedOrder(storage, "c1", models.TypeCO, models.StatusPending, 3)
			seedOrder(storage, "r1", models.TypeRB, models.StatusPending, 6)
			if tc.prepare != nil {
				tc.prepare(storage)
			}
			service := newTestOrderService(t, storage)

			_, err := service.ApplyTransition(context.Background(), tc.orderID, tc.transition)
			assert.ErrorIs(t, err, tc.wantErr)

			if order, ok := storage.order(tc.orderID); ok {
				assert.Equal(t, models.StatusPending, order.Status.OrderStatus)
			}
			assert.Len(t, storage.orders, 3)
		})
	}
}

func TestApplyBulk(t *testing.T) {
	storage := newMemoryStorage()
	seedOrder(storage, "a", models.TypeCO, models.StatusPending, 1)
	seedOrder(storage, "b", models.TypeRB, models.StatusReturnFromHallmark, 2)
	seedOrder(storage, "c", models.TypeCO, models.StatusHallmark, 1)
	service := newTestOrderService(t, storage)

	result, err := service.ApplyBulk(context.Background(), models.BulkTransition{
		OrderIDs:   []string{"a", "a", "missing", "b", "c"},
		Transition: models.Transition{Event: models.EventMarkReady},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "a", result.Results[0].Order.OrderID)
	assert.Equal(t, "b", result.Results[1].Order.OrderID)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, "missing", result.Failures[0].OrderID)
	assert.Equal(t, "c", result.Failures[1].OrderID)

	for _, id := range []string{"a", "b"} {
		order, _ := storage.order(id)
		assert.Equal(t, models.StatusReady, order.Status.OrderStatus)
	}
	c, _ := storage.order("c")
	assert.Equal(t, models.StatusHallmark, c.Status.OrderStatus)
}

func TestApplyBulkCancelled(t *testing.T) {
	storage := newMemoryStorage()
	seedOrder(storage, "a", models.TypeCO, models.StatusPending, 1)
	seedOrder(storage, "b", models.TypeCO, models.StatusPending, 1)
	service := newTestOrderService(t, storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := service.ApplyBulk(ctx, models.BulkTransition{
		OrderIDs:   []string{"a", "b"},
		Transition: models.Transition{Event: models.EventMarkReady},
	})
	require.NoError(t, err)

	assert.Zero(t, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	for _, failure := range result.Failures {
		assert.Contains(t, failure.Reason, "не отправлено")
	}

	a, _ := storage.order("a")
	assert.Equal(t, models.StatusPending, a.Status.OrderStatus)
}

func TestApplyBulkValidation(t *testing.T) {
	service := newTestOrderService(t, newMemoryStorage())

	_, err := service.ApplyBulk(context.Background(), models.BulkTransition{
		Transition: models.Transition{Event: models.EventMarkReady},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResetOrders(t *testing.T) {
	t.Run("Should reset work queue by default", func(t *testing.T) {
		storage := newMemoryStorage()
		seedOrder(storage, "p", models.TypeCO, models.StatusPending, 1)
		seedOrder(storage, "r", models.TypeCO, models.StatusReturnFromHallmark, 1)
		seedOrder(storage, "ready", models.TypeCO, models.StatusReady, 1)
		seedOrder(storage, "h", models.TypeCO, models.StatusHallmark, 1)
		service := newTestOrderService(t, storage)

		deleted, err := service.ResetOrders(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		_, ok := storage.order("ready")
		assert.True(t, ok)
		_, ok = storage.order("h")
		assert.True(t, ok)
		_, ok = storage.order("p")
		assert.False(t, ok)
	})

	t.Run("Should refuse to reset orders on the way to hallmark", func(t *testing.T) {
		storage := newMemoryStorage()
		seedOrder(storage, "h", models.TypeCO, models.StatusHallmark, 1)
		service := newTestOrderService(t, storage)

		_, err := service.ResetOrders(context.Background(), []models.OrderStatus{models.StatusHallmark})
		assert.ErrorIs(t, err, ErrResetNotAllowed)
		assert.Len(t, storage.orders, 1)
	})
}

func TestGetOrdersEnrichesOnRead(t *testing.T) {
	storage := newMemoryStorage()
	seedOrder(storage, "a", models.TypeRB, models.StatusPending, 1)
	seedOrder(storage, "b", models.TypeCO, models.StatusReady, 1)
	storage.mappings["C 1"] = database.DesignMappingDB{DesignCode: "C 1", GenericName: "Bangle"}
	service := newTestOrderService(t, storage)

	orders, err := service.GetOrders(context.Background(), models.OrderFilter{
		Statuses: []models.OrderStatus{models.StatusPending},
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "a", order.OrderID)
	require.NotNil(t, order.GenericName)
	assert.Equal(t, "Bangle", *order.GenericName)
	assert.Nil(t, order.KarigarName)
	assert.Equal(t, []models.Event{
		models.EventMarkReady,
		models.EventSupply,
		models.EventReassignKarigar,
		models.EventBulkReset,
	}, order.Actions)

	// справочник поменялся, заказ видит новое значение без перезаписи
	storage.mappings["C 1"] = database.DesignMappingDB{DesignCode: "C 1", GenericName: "Kada", KarigarName: "Mohan"}
	orders, err = service.GetOrders(context.Background(), models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Kada", *orders[0].GenericName)
	assert.Equal(t, "Mohan", *orders[0].KarigarName)
}
