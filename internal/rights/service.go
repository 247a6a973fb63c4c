package rights

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

const idempotencyArea = "rights"

// ChangeNotifier is told after a grant mutation committed and the version
// bumped, typically to enqueue view warmup. Failures there must not fail
// the mutation.
type ChangeNotifier interface {
	GrantsChanged(ctx context.Context, tenantID, userID, version int64)
}

// Service orchestrates grant reads and mutations.
type Service struct {
	repo        Repository
	catalog     *authz.Catalog
	versions    *authz.Versions
	idempotency *shared.IdempotencyStore
	notifier    ChangeNotifier
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewService wires the rights service. Notifier and idempotency store may be
// nil.
func NewService(repo Repository, catalog *authz.Catalog, versions *authz.Versions, idempotency *shared.IdempotencyStore, notifier ChangeNotifier, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		catalog:     catalog,
		versions:    versions,
		idempotency: idempotency,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Get returns a user's grant matrix with the current rights version.
func (s *Service) Get(ctx context.Context, tenantID, userID int64) (UserRights, error) {
	grants, err := s.repo.ListGrants(ctx, tenantID, userID)
	if err != nil {
		return UserRights{}, fmt.Errorf("rights: list grants: %w", err)
	}
	version, err := s.versions.Current(ctx, tenantID, userID)
	if err != nil {
		return UserRights{}, err
	}
	out := UserRights{UserID: userID, Version: version, Grants: make([]ModuleRights, 0, len(grants))}
	for _, grant := range grants {
		out.Grants = append(out.Grants, ModuleRights{Module: grant.Module, Actions: grant.Rights.Actions()})
	}
	return out, nil
}

// Replace atomically swaps the user's grant matrix, bumps the rights version
// once for the whole batch, and notifies listeners. The returned value is
// the new version.
func (s *Service) Replace(ctx context.Context, tenantID, userID int64, input ReplaceInput, idempotencyKey string) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	grants, err := s.toRights(input)
	if err != nil {
		return 0, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, tenantID, idempotencyKey, idempotencyArea); err != nil {
			if err == shared.ErrIdempotencyConflict {
				return 0, fmt.Errorf("%w: rights write already applied", httpx.ErrDuplicate)
			}
			return 0, err
		}
	}

	if err := s.repo.ReplaceGrants(ctx, tenantID, userID, grants); err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			_ = s.idempotency.Delete(ctx, tenantID, idempotencyKey)
		}
		return 0, fmt.Errorf("rights: replace grants: %w", err)
	}

	// Bump strictly after the durable commit so no reader observes a new
	// version over stale grants.
	version, err := s.OnGrantsChanged(ctx, tenantID, userID)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// OnGrantsChanged is the mutation-completion callback every grant-writing
// endpoint must invoke after commit. It bumps the version (making stale
// cache entries unreachable) and notifies listeners.
func (s *Service) OnGrantsChanged(ctx context.Context, tenantID, userID int64) (int64, error) {
	version, err := s.versions.Bump(ctx, tenantID, userID)
	if err != nil {
		return 0, err
	}
	if s.notifier != nil {
		s.notifier.GrantsChanged(ctx, tenantID, userID, version)
	}
	if s.logger != nil {
		s.logger.Info("rights version bumped",
			slog.Int64("tenant", tenantID),
			slog.Int64("user", userID),
			slog.Int64("version", version))
	}
	return version, nil
}

func (s *Service) toRights(input ReplaceInput) (map[string]authz.Rights, error) {
	grants := make(map[string]authz.Rights, len(input.Grants))
	for _, g := range input.Grants {
		if !s.catalog.Known(g.Module) {
			return nil, fmt.Errorf("%w: unknown module %s", httpx.ErrValidation, g.Module)
		}
		if _, dup := grants[g.Module]; dup {
			return nil, fmt.Errorf("%w: module %s listed twice", httpx.ErrValidation, g.Module)
		}
		var mask authz.Rights
		for _, name := range g.Actions {
			action, ok := authz.ParseAction(name)
			if !ok {
				return nil, fmt.Errorf("%w: unknown action %s", httpx.ErrValidation, name)
			}
			mask = mask.With(action)
		}
		grants[g.Module] = mask
	}
	return grants, nil
}
