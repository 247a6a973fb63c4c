package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/caterline-erp/caterline-erp/internal/app"
	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/menu"
	"github.com/caterline-erp/caterline-erp/internal/platform/cache"
	"github.com/caterline-erp/caterline-erp/internal/platform/db"
	"github.com/caterline-erp/caterline-erp/internal/reports"
	"github.com/caterline-erp/caterline-erp/internal/shared"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
	"github.com/caterline-erp/caterline-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	grantRepo := authz.NewRepository(pool)
	evaluator := authz.NewEvaluator(grantRepo)
	versions := authz.NewVersions(redisClient)

	viewCache := viewcache.New(cfg.ViewCacheSize, cfg.ViewCacheTTL,
		viewcache.WithWaitBudget(cfg.ViewCacheWaitBudget))

	menuAssembler := menu.NewAssembler(menuCatalog, evaluator, versions, viewCache)
	reportAssembler := reports.NewAssembler(reportCatalog, evaluator, versions, viewCache)
	warmupJob := jobs.NewRightsWarmupJob(menuAssembler, reportAssembler, logger)

	idempotencyStore := shared.NewIdempotencyStore(pool)
	cleanupJob := jobs.NewIdempotencyCleanupJob(idempotencyStore, logger)

	cleanupTask, err := jobs.NewIdempotencyCleanupTask(cfg.IdempotencyRetentionHours)
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRightsWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskIdempotencyCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 2 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
