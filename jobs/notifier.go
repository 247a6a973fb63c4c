package jobs

import (
	"context"
	"log/slog"
)

// Warmer rebuilds a user's cached permission views.
type Warmer interface {
	Warm(ctx context.Context, tenantID, userID int64) error
}

// GrantChangeNotifier reacts to grant replacements. It warms the local cache
// immediately so the serving process answers the next request from cache, and
// enqueues a task for worker-side consumers. Both paths are best effort; the
// next request rebuilds the views either way.
type GrantChangeNotifier struct {
	client *Client
	warmer Warmer
	logger *slog.Logger
}

// NewGrantChangeNotifier constructs the notifier. Either dependency may be nil.
func NewGrantChangeNotifier(client *Client, warmer Warmer, logger *slog.Logger) *GrantChangeNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrantChangeNotifier{client: client, warmer: warmer, logger: logger}
}

// GrantsChanged schedules a rebuild of the user's cached permission views.
func (n *GrantChangeNotifier) GrantsChanged(ctx context.Context, tenantID, userID, version int64) {
	if n == nil {
		return
	}
	if n.warmer != nil {
		// Detached so the warm-up survives the request that triggered it.
		go func(ctx context.Context) {
			if err := n.warmer.Warm(ctx, tenantID, userID); err != nil {
				n.logger.Warn("local rights warmup",
					slog.Int64("tenant", tenantID),
					slog.Int64("user", userID),
					slog.Any("error", err))
			}
		}(context.WithoutCancel(ctx))
	}
	if n.client == nil {
		return
	}
	payload := RightsWarmupPayload{TenantID: tenantID, UserID: userID, Version: version}
	if _, err := n.client.EnqueueRightsWarmup(ctx, payload); err != nil {
		n.logger.Warn("enqueue rights warmup",
			slog.Int64("tenant", tenantID),
			slog.Int64("user", userID),
			slog.Any("error", err))
	}
}
