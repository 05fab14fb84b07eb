package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/backoffice-api/internal/config"
	"github.com/vetdesk/backoffice-api/internal/email"
	appointmentHandler "github.com/vetdesk/backoffice-api/internal/handler/appointment"
	authHandler "github.com/vetdesk/backoffice-api/internal/handler/auth"
	doctorHandler "github.com/vetdesk/backoffice-api/internal/handler/doctor"
	healthHandler "github.com/vetdesk/backoffice-api/internal/handler/health"
	reportHandler "github.com/vetdesk/backoffice-api/internal/handler/report"
	specialtyHandler "github.com/vetdesk/backoffice-api/internal/handler/specialty"
	transactionHandler "github.com/vetdesk/backoffice-api/internal/handler/transaction"
	userHandler "github.com/vetdesk/backoffice-api/internal/handler/user"
	"github.com/vetdesk/backoffice-api/internal/middleware"
	"github.com/vetdesk/backoffice-api/internal/repository/postgres"
	"github.com/vetdesk/backoffice-api/internal/router"
	appointmentService "github.com/vetdesk/backoffice-api/internal/service/appointment"
	authService "github.com/vetdesk/backoffice-api/internal/service/auth"
	doctorService "github.com/vetdesk/backoffice-api/internal/service/doctor"
	reportService "github.com/vetdesk/backoffice-api/internal/service/report"
	sessionService "github.com/vetdesk/backoffice-api/internal/service/session"
	specialtyService "github.com/vetdesk/backoffice-api/internal/service/specialty"
	transactionService "github.com/vetdesk/backoffice-api/internal/service/transaction"
	userService "github.com/vetdesk/backoffice-api/internal/service/user"
	"github.com/vetdesk/backoffice-api/internal/worker"
	"github.com/vetdesk/backoffice-api/pkg/auth"
	"github.com/vetdesk/backoffice-api/pkg/cache"
	"github.com/vetdesk/backoffice-api/pkg/logger"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := postgres.NewStore(db)

	var sessionCache *cache.Cache
	if cfg.Redis.URL != "" {
		sessionCache, err = cache.New(cache.Config{URL: cfg.Redis.URL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer sessionCache.Close()
	}

	signer := auth.NewHMACSigner(cfg.Session.Secret)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost, cfg.Security.Pepper)
	mailer := email.NewMailer(cfg.SMTP)

	sessionSvc := sessionService.NewService(store.Sessions(), signer, sessionCache, cfg.Session.TTL)
	authSvc := authService.NewService(store.Users(), store.Tenants(), hasher)
	userSvc := userService.NewService(store, hasher, mailer)
	doctorSvc := doctorService.NewService(store)
	specialtySvc := specialtyService.NewService(store)
	appointmentSvc := appointmentService.NewService(store)
	transactionSvc := transactionService.NewService(store)
	reportSvc := reportService.NewService(store)

	sessionMW := middleware.NewSessionMiddleware(sessionSvc, store.Tenants(), cfg.Session.CookieName)

	r := router.New(cfg, router.Handlers{
		Health:      healthHandler.NewHandler(db),
		Auth:        authHandler.NewHandler(authSvc, sessionSvc, cfg.Session),
		User:        userHandler.NewHandler(userSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc),
		Specialty:   specialtyHandler.NewHandler(specialtySvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Transaction: transactionHandler.NewHandler(transactionSvc),
		Report:      reportHandler.NewHandler(reportSvc),
	}, sessionMW)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go worker.NewSessionCleanupWorker(sessionSvc, time.Hour).Start(workerCtx)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
