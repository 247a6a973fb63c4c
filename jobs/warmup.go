package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/caterline-erp/caterline-erp/internal/menu"
	"github.com/caterline-erp/caterline-erp/internal/reports"
)

// RightsWarmupJob rebuilds the menu and report-rights views for a user so the
// first request after a grant change does not pay the compute cost.
type RightsWarmupJob struct {
	menu    *menu.Assembler
	reports *reports.Assembler
	logger  *slog.Logger
}

// NewRightsWarmupJob constructs the warmup handler.
func NewRightsWarmupJob(menuAssembler *menu.Assembler, reportAssembler *reports.Assembler, logger *slog.Logger) *RightsWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RightsWarmupJob{menu: menuAssembler, reports: reportAssembler, logger: logger}
}

// Handle processes TaskRightsWarmup tasks.
func (j *RightsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RightsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TenantID <= 0 || payload.UserID <= 0 {
		return asynq.SkipRetry
	}
	return j.Warm(ctx, payload.TenantID, payload.UserID)
}

// Warm rebuilds both views for the user in the process-local cache. The task
// handler and the in-process notifier share this path.
func (j *RightsWarmupJob) Warm(ctx context.Context, tenantID, userID int64) error {
	menuView, err := j.menu.BuildMenu(ctx, tenantID, userID)
	if err != nil {
		j.logger.Warn("warmup menu", slog.Int64("tenant", tenantID), slog.Int64("user", userID), slog.Any("error", err))
		return err
	}
	reportView, err := j.reports.BuildReportRights(ctx, tenantID, userID)
	if err != nil {
		j.logger.Warn("warmup report rights", slog.Int64("tenant", tenantID), slog.Int64("user", userID), slog.Any("error", err))
		return err
	}
	j.logger.Info("rights views warmed",
		slog.Int64("tenant", tenantID),
		slog.Int64("user", userID),
		slog.Int64("menuVersion", menuView.Version),
		slog.Int64("reportVersion", reportView.Version))
	return nil
}
