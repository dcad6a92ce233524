package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/services"
)

type userFieldType string

// userField ключ оператора в контексте запроса.
const userField userFieldType = "userField"

// AuthMiddlewareConfig настройки проверки токена.
type AuthMiddlewareConfig struct {
	excludePaths []string
}

func AuthMiddleware() *AuthMiddlewareConfig {
	return &AuthMiddlewareConfig{}
}

// WithExcludedPaths пути, для которых токен не нужен. Сравнение по префиксу.
func (a *AuthMiddlewareConfig) WithExcludedPaths(paths ...string) *AuthMiddlewareConfig {
	a.excludePaths = paths
	return a
}

func (a *AuthMiddlewareConfig) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, path := range a.excludePaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r)
				return
			}
		}

		authService := GetServiceFromContext[models.AuthService](w, r, AuthServiceKey)
		jwtService := GetServiceFromContext[models.JWTService](w, r, JwtServiceKey)
		if authService == nil || jwtService == nil {
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Требуется заголовок Authorization", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			http.Error(w, "Токен Bearer пуст", http.StatusUnauthorized)
			return
		}

		token, err := (*jwtService).ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenIsExpired) {
				http.Error(w, "Токен истёк", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Неверный токен", http.StatusUnauthorized)
			return
		}

		login, err := token.Claims.GetSubject()
		if err != nil {
			http.Error(w, fmt.Sprintf("Ошибка при чтении поля sub: %s", err.Error()), http.StatusUnauthorized)
			return
		}

		user, err := (*authService).GetUser(r.Context(), login)
		if err != nil {
			if errors.Is(err, services.ErrUserIsNotExist) {
				http.Error(w, fmt.Sprintf("Оператор %s не существует", login), http.StatusUnauthorized)
				return
			}

			http.Error(w, fmt.Sprintf("Ошибка при проверке оператора: %s", err.Error()), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userField, user)))
	})
}

// GetUserFromContext оператор, прошедший AuthMiddleware. Если его нет, отвечает 500 и возвращает nil.
func GetUserFromContext(w http.ResponseWriter, r *http.Request) *models.User {
	user, ok := UserFromContext(r.Context())

	if !ok {
		http.Error(w, "Не удалось получить оператора из контекста", http.StatusInternalServerError)
		return nil
	}

	return user
}

// UserFromContext оператор из контекста без ответа клиенту.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userField).(*models.User)
	return user, ok
}
