package router

import (
	"errors"
	"net/http"

	"github.com/Renal37/karigar-desk/internal/lifecycle"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/services"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// statusFor код ответа для ошибки сервиса.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrResetNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrImportNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrIllegalTransition),
		errors.Is(err, services.ErrOrderChanged),
		errors.Is(err, services.ErrDuplicateKarigar):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnreadableFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrJobQueueIsFull),
		errors.Is(err, services.ErrJobQueueClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error("ошибка при обработке запроса",
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("URI", r.RequestURI),
			zap.String("метод", r.Method),
			zap.Error(err),
		)
	}
	http.Error(w, err.Error(), status)
}
