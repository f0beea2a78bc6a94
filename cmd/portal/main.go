// @title        Clinic Portal API
// @version      1.0
// @description  Session-aware portal in front of the clinic backend.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartclinic/clinic-portal/internal/api"
	"github.com/smartclinic/clinic-portal/internal/api/handler"
	"github.com/smartclinic/clinic-portal/internal/core/service"
	"github.com/smartclinic/clinic-portal/internal/infrastructure/clinicapi"
	mongodb "github.com/smartclinic/clinic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/smartclinic/clinic-portal/internal/infrastructure/db/redis"
	"github.com/smartclinic/clinic-portal/internal/infrastructure/queue"
	"github.com/smartclinic/clinic-portal/internal/pkg/config"
	"github.com/smartclinic/clinic-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "clinic-portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	auditRepo := mongodb.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure audit indexes")
	}

	// Audit workers stop only after the HTTP server has drained.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)

	backend := clinicapi.New(clinicapi.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, logger.Component("clinicapi"))

	sessions := service.NewSessionService(redisdb.NewSessionStore(rdb, cfg.SessionTTL), backend, logger.Component("session"))
	directory := service.NewDoctorDirectory(backend, logger.Component("directory"))
	gateway := service.NewGateway(backend, backend, redisdb.NewConfirmationStore(rdb), dispatcher, cfg.ConfirmTTL, logger.Component("gateway"))
	board := service.NewAppointmentBoard(backend, logger.Component("appointments"))

	e := api.NewRouter(api.Dependencies{
		Sessions:     sessions,
		Directory:    directory,
		Gateway:      gateway,
		Appointments: board,
		Audit:        auditRepo,
		Readiness: map[string]handler.Pinger{
			"backend": backend.Ping,
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("clinic portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
}
