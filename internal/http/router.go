package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

type Config struct {
	Endpoint string
}

type Router struct {
	config   Config
	services middlewares.Services
	server   *http.Server
}

func New(config Config, services middlewares.Services) *Router {
	router := &Router{
		config:   config,
		services: services,
	}
	router.server = &http.Server{
		Addr:              config.Endpoint,
		Handler:           router.get(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return router
}

func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		logger.RequestLogger,
		middleware.Recoverer,
		middlewares.ServiceInjectorMiddleware(router.services),
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/api/user/register",
			"/api/user/login",
		).Middleware,
	)

	r.Route("/api/user", func(r chi.Router) {
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/register", Register)
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/login", Login)
		r.Get("/", CurrentUser)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", GetOrders)
		r.With(middlewares.JSONMiddleware[models.NewOrder]).Post("/", CreateOrder)
		r.Delete("/", ResetOrders)

		r.With(middlewares.JSONMiddleware[models.BulkTransition]).Post("/transitions", ApplyBulk)
		r.With(middlewares.JSONMiddleware[models.Transition]).Post("/{orderID}/transitions", ApplyTransition)

		r.With(middlewares.UploadMiddleware).Post("/import", ImportOrders)
	})

	r.Get("/api/imports/{importID}", GetImport)

	r.Route("/api/mappings", func(r chi.Router) {
		r.Get("/", GetMappings)
		r.Get("/unmapped", GetUnmapped)
		r.With(middlewares.UploadMiddleware).Post("/import", ImportMappings)
		r.With(middlewares.JSONMiddleware[models.DesignMapping]).Put("/{code}", UpsertMapping)
	})

	r.Route("/api/karigars", func(r chi.Router) {
		r.Get("/", GetKarigars)
		r.With(middlewares.JSONMiddleware[models.Karigar]).Post("/", AddKarigar)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/orders", ExportOrders)
		r.Get("/designs", DesignSummary)
	})

	return r
}

// Run слушает адрес из конфига до вызова Shutdown.
func (router *Router) Run() error {
	logger.Log.Info("сервер запущен", zap.String("address", router.config.Endpoint))
	if err := router.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения текущих запросов.
func (router *Router) Shutdown(ctx context.Context) error {
	return router.server.Shutdown(ctx)
}
