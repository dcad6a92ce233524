package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/services"
)

// credentialsHandler шаг входа или регистрации: проверка пары логин/пароль в AuthService.
type credentialsHandler func(w http.ResponseWriter, r *http.Request, auth models.AuthService, data models.UnknownUser) bool

func IsUnknownUserDataValid(data models.UnknownUser) bool {
	return data.Login != nil && data.Password != nil
}

// Register заводит оператора и сразу выдаёт ему токен.
func Register(w http.ResponseWriter, r *http.Request) {
	withToken(w, r, func(w http.ResponseWriter, r *http.Request, auth models.AuthService, data models.UnknownUser) bool {
		err := auth.Register(r.Context(), data)
		if errors.Is(err, services.ErrUserIsAlreadyRegistered) {
			http.Error(w, "Оператор уже зарегистрирован", http.StatusConflict)
			return false
		}
		if err != nil {
			writeError(w, r, err)
			return false
		}
		return true
	})
}

func Login(w http.ResponseWriter, r *http.Request) {
	withToken(w, r, func(w http.ResponseWriter, r *http.Request, auth models.AuthService, data models.UnknownUser) bool {
		err := auth.Login(r.Context(), data)
		switch {
		case err == nil:
			return true
		case errors.Is(err, services.ErrUserIsNotExist):
			http.Error(w, fmt.Sprintf("Оператор %s не существует", *data.Login), http.StatusUnauthorized)
		case errors.Is(err, services.ErrPasswordIsIncorrect):
			http.Error(w, "Неверный пароль", http.StatusUnauthorized)
		default:
			writeError(w, r, err)
		}
		return false
	})
}

// withToken после успешного шага кладёт токен оператора в заголовок Authorization.
func withToken(w http.ResponseWriter, r *http.Request, step credentialsHandler) {
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)
	if authService == nil || jwtService == nil {
		return
	}

	if !IsUnknownUserDataValid(data) {
		http.Error(w, "В запросе нет логина или пароля", http.StatusBadRequest)
		return
	}

	if !step(w, r, *authService, data) {
		return
	}

	token, err := (*jwtService).GenerateJWT(strings.TrimSpace(*data.Login))
	if err != nil {
		http.Error(w, fmt.Sprintf("Ошибка при выпуске токена: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
}

// CurrentUser оператор, которому выдан токен запроса.
func CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middlewares.GetUserFromContext(w, r)
	if user == nil {
		return
	}

	middlewares.EncodeJSONResponse(w, http.StatusOK, user)
}
