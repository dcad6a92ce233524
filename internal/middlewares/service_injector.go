package middlewares

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/karigar-desk/internal/models"
)

type key int

const (
	AuthServiceKey key = iota
	JwtServiceKey
	OrderServiceKey
	ImportServiceKey
	MappingServiceKey
	ReportServiceKey
)

// Services набор сервисов, доступных обработчикам через контекст запроса.
type Services struct {
	Auth    models.AuthService
	Jwt     models.JWTService
	Order   models.OrderService
	Import  models.ImportService
	Mapping models.MappingService
	Report  models.ReportService
}

func ServiceInjectorMiddleware(services Services) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), AuthServiceKey, services.Auth)
			ctx = context.WithValue(ctx, JwtServiceKey, services.Jwt)
			ctx = context.WithValue(ctx, OrderServiceKey, services.Order)
			ctx = context.WithValue(ctx, ImportServiceKey, services.Import)
			ctx = context.WithValue(ctx, MappingServiceKey, services.Mapping)
			ctx = context.WithValue(ctx, ReportServiceKey, services.Report)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetServiceFromContext достаёт сервис по ключу. Если сервиса нет, отвечает 500 и возвращает nil.
func GetServiceFromContext[Service interface{}](w http.ResponseWriter, r *http.Request, serviceKey key) *Service {
	foundService, ok := r.Context().Value(serviceKey).(Service)

	if !ok {
		http.Error(w, fmt.Sprintf("Сервис не найден в контексте по ключу %v", serviceKey), http.StatusInternalServerError)
		return nil
	}

	return &foundService
}
