package router

import (
	"net/http"

	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type resetResponse struct {
	Deleted int64 `json:"deleted"`
}

func GetOrders(w http.ResponseWriter, r *http.Request) {
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := (*orderService).GetOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, orders)
}

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.NewOrder](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	order, err := (*orderService).CreateOrder(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusCreated, order)
}

// ResetOrders удаляет заказы очереди работы. Статусы задаются ?status=.
func ResetOrders(w http.ResponseWriter, r *http.Request) {
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	statuses, err := parseStatuses(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deleted, err := (*orderService).ResetOrders(r.Context(), statuses)
	if err != nil {
		writeError(w, r, err)
		return
	}

	operatorLog(r).Info("сброс очереди", zap.Int64("deleted", deleted))
	middlewares.EncodeJSONResponse(w, http.StatusOK, resetResponse{Deleted: deleted})
}

func ApplyTransition(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.Transition](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	orderID := chi.URLParam(r, "orderID")
	result, err := (*orderService).ApplyTransition(r.Context(), orderID, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	operatorLog(r).Info("смена статуса",
		zap.String("orderID", orderID),
		zap.String("event", string(data.Event)),
		zap.String("status", string(result.Order.Status)),
	)
	middlewares.EncodeJSONResponse(w, http.StatusOK, result)
}

// ApplyBulk всегда отвечает 200 с итогом: ошибки отдельных заказов перечислены в failures.
func ApplyBulk(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.BulkTransition](w, r)
	orderService := middlewares.GetServiceFromContext[models.OrderService](w, r, middlewares.OrderServiceKey)
	if orderService == nil {
		return
	}

	result, err := (*orderService).ApplyBulk(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, result)
}

// operatorLog логгер с логином оператора, если запрос прошёл проверку токена.
func operatorLog(r *http.Request) *zap.Logger {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		return logger.Log
	}
	return logger.Log.With(zap.String("operator", user.Login))
}
