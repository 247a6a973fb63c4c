package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Versions tracks the per-(tenant, user) rights version counter. The counter
// starts at 0 and is bumped by exactly one after every durable grant
// mutation; permission-derived view caches key their entries by it, so a
// bump makes every stale entry unreachable without explicit eviction.
type Versions struct {
	client *redis.Client
}

// NewVersions constructs the counter over a Redis client. INCR gives the
// atomicity two concurrent bumps for the same key require.
func NewVersions(client *redis.Client) *Versions {
	return &Versions{client: client}
}

func versionKey(tenantID, userID int64) string {
	return fmt.Sprintf("authz:rights:%d:%d:ver", tenantID, userID)
}

// Current returns the version for the key, 0 when never bumped. Callers must
// fetch this immediately before every cache lookup and never cache it.
func (v *Versions) Current(ctx context.Context, tenantID, userID int64) (int64, error) {
	ver, err := v.client.Get(ctx, versionKey(tenantID, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("authz: read version: %w", err)
	}
	return ver, nil
}

// Bump atomically increments the version and returns the new value. It must
// be called only after the grant mutation is durably committed.
func (v *Versions) Bump(ctx context.Context, tenantID, userID int64) (int64, error) {
	ver, err := v.client.Incr(ctx, versionKey(tenantID, userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("authz: bump version: %w", err)
	}
	return ver, nil
}
