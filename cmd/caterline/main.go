package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caterline-erp/caterline-erp/internal/app"
	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/masterdata/eventtypes"
	"github.com/caterline-erp/caterline-erp/internal/masterdata/kitchens"
	"github.com/caterline-erp/caterline-erp/internal/menu"
	"github.com/caterline-erp/caterline-erp/internal/observability"
	"github.com/caterline-erp/caterline-erp/internal/platform/cache"
	"github.com/caterline-erp/caterline-erp/internal/platform/db"
	"github.com/caterline-erp/caterline-erp/internal/procurement"
	"github.com/caterline-erp/caterline-erp/internal/reports"
	"github.com/caterline-erp/caterline-erp/internal/rights"
	"github.com/caterline-erp/caterline-erp/internal/shared"
	"github.com/caterline-erp/caterline-erp/internal/users"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
	"github.com/caterline-erp/caterline-erp/jobs"
	"github.com/caterline-erp/caterline-erp/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	moduleCodes := append(shared.CoreModules(), shared.CateringModules()...)
	moduleCatalog, err := authz.NewCatalog(moduleCodes...)
	if err != nil {
		logger.Error("build module catalog", slog.Any("error", err))
		os.Exit(1)
	}
	if err := moduleCatalog.Validate(authz.DeclaredSpecs()...); err != nil {
		logger.Error("validate route requirements", slog.Any("error", err))
		os.Exit(1)
	}

	menuCatalog, err := menu.LoadCatalog()
	if err != nil {
		logger.Error("load menu catalog", slog.Any("error", err))
		os.Exit(1)
	}
	if err := menuCatalog.Validate(moduleCatalog); err != nil {
		logger.Error("validate menu catalog", slog.Any("error", err))
		os.Exit(1)
	}
	reportCatalog, err := reports.LoadCatalog()
	if err != nil {
		logger.Error("load report catalog", slog.Any("error", err))
		os.Exit(1)
	}
	if err := reportCatalog.Validate(moduleCatalog); err != nil {
		logger.Error("validate report catalog", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	grantRepo := authz.NewRepository(dbpool)
	evaluator := authz.NewEvaluator(grantRepo)
	versions := authz.NewVersions(redisClient)
	gate := authz.NewGate(evaluator, logger, metrics)

	viewCache := viewcache.New(cfg.ViewCacheSize, cfg.ViewCacheTTL,
		viewcache.WithWaitBudget(cfg.ViewCacheWaitBudget),
		viewcache.WithRecorder(metrics))

	menuAssembler := menu.NewAssembler(menuCatalog, evaluator, versions, viewCache)
	menuHandler := menu.NewHandler(logger, menuAssembler, gate)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}
	reportAssembler := reports.NewAssembler(reportCatalog, evaluator, versions, viewCache)
	reportService := reports.NewService(reportCatalog, pdfClient)
	reportHandler := reports.NewHandler(logger, reportAssembler, reportService, gate)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	warmupJob := jobs.NewRightsWarmupJob(menuAssembler, reportAssembler, logger)
	notifier := jobs.NewGrantChangeNotifier(jobClient, warmupJob, logger)

	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	rightsRepo := rights.NewRepository(dbpool)
	rightsService := rights.NewService(rightsRepo, moduleCatalog, versions, idempotencyStore, notifier, logger)
	rightsHandler := rights.NewHandler(logger, rightsService, gate)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, gate)

	eventTypesService := eventtypes.NewService(eventtypes.NewRepository(dbpool))
	eventTypesHandler := eventtypes.NewHandler(logger, eventTypesService, gate)

	kitchensService := kitchens.NewService(kitchens.NewRepository(dbpool))
	kitchensHandler := kitchens.NewHandler(logger, kitchensService, gate)

	procurementService := procurement.NewService(procurement.NewRepository(dbpool))
	procurementHandler := procurement.NewHandler(logger, procurementService, gate)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Metrics:            metrics,
		MenuHandler:        menuHandler,
		ReportsHandler:     reportHandler,
		RightsHandler:      rightsHandler,
		UsersHandler:       usersHandler,
		EventTypesHandler:  eventTypesHandler,
		KitchensHandler:    kitchensHandler,
		ProcurementHandler: procurementHandler,
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
