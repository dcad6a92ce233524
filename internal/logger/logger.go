package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Log глобальный логгер. До вызова Initialize ничего не пишет.
var Log *zap.Logger = zap.NewNop()

// Initialize настраивает Log.
// level: debug, info, warn, error. env: development даёт читаемый вывод, остальное JSON.
func Initialize(level, env string) error {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("ошибка парсинга уровня логирования: %w", err)
	}

	var config zap.Config
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = logLevel

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("ошибка построения логгера: %w", err)
	}

	Log = logger.Named("karigar-desk")
	return nil
}

// responseWriter запоминает код ответа и число записанных байт.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// RequestLogger пишет в лог каждый HTTP-запрос с его request id. Ответы 5xx пишутся с уровнем error.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		wrappedWriter := newResponseWriter(w)

		next.ServeHTTP(wrappedWriter, r)

		fields := []zap.Field{
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("URI", r.RequestURI),
			zap.String("метод", r.Method),
			zap.Duration("длительность", time.Since(startTime)),
			zap.Int("статус", wrappedWriter.statusCode),
			zap.Int("размер", wrappedWriter.size),
		}

		if wrappedWriter.statusCode >= http.StatusInternalServerError {
			Log.Error("Запрос обработан с ошибкой", fields...)
			return
		}
		Log.Info("Запрос обработан", fields...)
	})
}
