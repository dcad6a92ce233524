package main

import (
	"context"
	"log"
	"time"

	"github.com/Renal37/karigar-desk/internal/database"
	router "github.com/Renal37/karigar-desk/internal/http"
	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/middlewares"
	"github.com/Renal37/karigar-desk/internal/services"
	"github.com/Renal37/karigar-desk/internal/utils"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	invalidType, err := ingest.ParseInvalidTypePolicy(config.invalidOrderType)
	if err != nil {
		log.Fatalf("Config is invalid: %s", err)
	}

	db, err := database.New(ctx, config.dsn)
	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	mappingService, err := services.NewMappingService(db, config.mappingCacheSize)
	if err != nil {
		log.Fatalf("Mapping service wasn't initialized due to %s", err)
	}
	orderService := services.NewOrderService(db, mappingService, config.bulkConcurrency)

	jobQueueService := services.NewJobQueueService(ctx, config.importQueueSize, config.importWorkers)
	importService, err := services.NewImportService(orderService, mappingService, jobQueueService, invalidType)
	if err != nil {
		log.Fatalf("Import service wasn't initialized due to %s", err)
	}

	server := router.New(router.Config{Endpoint: config.endpoint}, middlewares.Services{
		Auth:    services.NewAuthService(db),
		Jwt:     services.NewJWTService(config.authSecretKey),
		Order:   orderService,
		Import:  importService,
		Mapping: mappingService,
		Report:  services.NewReportService(orderService),
	})

	done := utils.HandleTerminationProcess(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("сервер остановлен с ошибкой", zap.Error(err))
		}
		jobQueueService.Shutdown()
		logger.Log.Info("очередь загрузок остановлена")
	})

	logger.Log.Info("конфигурация",
		zap.String("env", config.env),
		zap.Int("importWorkers", config.importWorkers),
		zap.Int("importQueueSize", config.importQueueSize),
		zap.Int("bulkConcurrency", config.bulkConcurrency),
		zap.Int("mappingCacheSize", config.mappingCacheSize),
		zap.String("invalidOrderType", config.invalidOrderType),
	)

	if err := server.Run(); err != nil {
		logger.Log.Fatal("сервер не запущен", zap.Error(err))
	}

	<-done
}
