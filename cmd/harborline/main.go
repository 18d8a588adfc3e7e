package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/harborline/harborline/internal/app"
	"github.com/harborline/harborline/internal/auth"
	"github.com/harborline/harborline/internal/bookings"
	"github.com/harborline/harborline/internal/dashboard"
	"github.com/harborline/harborline/internal/observability"
	"github.com/harborline/harborline/internal/platform/cache"
	"github.com/harborline/harborline/internal/ports"
	"github.com/harborline/harborline/internal/quotations"
	"github.com/harborline/harborline/internal/rates"
	"github.com/harborline/harborline/internal/rbac"
	"github.com/harborline/harborline/internal/schedules"
	"github.com/harborline/harborline/internal/seed"
	"github.com/harborline/harborline/internal/shared"
	"github.com/harborline/harborline/internal/store"
	"github.com/harborline/harborline/internal/summarize"
	"github.com/harborline/harborline/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	envFile := pflag.String("env-file", "", "path to a dotenv file loaded before configuration")
	pflag.Parse()
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			slog.Default().Error("load env file", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "harborline_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	latency := store.Latency(cfg.StoreLatency)
	clock := store.SystemClock

	users, err := seed.Users()
	if err != nil {
		logger.Error("seed users", slog.Any("error", err))
		os.Exit(1)
	}
	authRepo := auth.NewMemoryRepository(users, latency)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	rbacMiddleware := rbac.Middleware{Logger: logger}

	portsRepo := ports.NewMemoryRepository(seed.Ports(), latency)
	portsHandler := ports.NewHandler(logger, portsRepo, rbacMiddleware)

	ratesRepo := rates.NewMemoryRepository(latency, clock)
	ratesService := rates.NewService(ratesRepo)
	ratesHandler := rates.NewHandler(logger, ratesService, rbacMiddleware)

	schedulesRepo := schedules.NewMemoryRepository(latency, clock)
	scheduleRatesRepo := schedules.NewMemoryRateRepository(seed.ScheduleRates(), latency, cfg.RateSearchLimit)
	schedulesService := schedules.NewService(schedulesRepo, scheduleRatesRepo)
	schedulesHandler := schedules.NewHandler(logger, schedulesService, rbacMiddleware)

	quotationsRepo := quotations.NewMemoryRepository(latency, clock)
	quotationsService := quotations.NewService(quotationsRepo)
	quotationWizards := quotations.NewWizardManager(quotationsService, schedulesService, clock, cfg.WizardTTL)
	summarizer := summarize.NewClient(cfg.SummaryURL)
	quotationsHandler := quotations.NewHandler(logger, quotationsService, quotationWizards, summarizer)

	bookingsRepo := bookings.NewMemoryRepository(latency, clock)
	bookingsService := bookings.NewService(logger, bookingsRepo, quotationsService)
	bookingWizards := bookings.NewWizardManager(bookingsService, quotationsService, schedulesService, clock, cfg.WizardTTL)
	bookingsHandler := bookings.NewHandler(logger, bookingsService, bookingWizards)

	dashboardService := dashboard.NewService(quotationsService, bookingsService, clock, cfg.DashboardTTL)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	if err := seed.Apply(ctx, quotationsService, ratesService, schedulesService); err != nil {
		logger.Error("apply seed data", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	// The expiry sweep mutates the in-process record store, so the worker
	// runs embedded in this process rather than as a separate binary.
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	sweepTask, err := jobs.NewExpirySweepTask(jobs.ExpirySweepPayload{})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExpirySweep, Handler: jobs.NewExpirySweepHandler(logger, clock, ratesService, schedulesService)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: sweepTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       authHandler,
		QuotationsHandler: quotationsHandler,
		BookingsHandler:   bookingsHandler,
		RatesHandler:      ratesHandler,
		SchedulesHandler:  schedulesHandler,
		PortsHandler:      portsHandler,
		DashboardHandler:  dashboardHandler,
		RBACMiddleware:    rbacMiddleware,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
