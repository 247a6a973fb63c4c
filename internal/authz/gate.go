package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// ErrUnauthenticated reports a request with no resolvable tenant or user.
// It is distinct from a capability mismatch: the former maps to 401, the
// latter to 403.
var ErrUnauthenticated = errors.New("authz: unauthenticated")

// DecisionRecorder receives gate outcomes for metrics. Implementations must
// be safe for concurrent use.
type DecisionRecorder interface {
	RecordDecision(outcome string)
}

// Gate wires capability checks in front of protected operations.
type Gate struct {
	evaluator *Evaluator
	logger    *slog.Logger
	metrics   DecisionRecorder
}

// NewGate constructs a gate. The recorder may be nil.
func NewGate(evaluator *Evaluator, logger *slog.Logger, metrics DecisionRecorder) *Gate {
	return &Gate{evaluator: evaluator, logger: logger, metrics: metrics}
}

// Check evaluates the spec for the caller identified by the request context.
// It returns ErrUnauthenticated when no identity is present and Deny with a
// nil error on a plain capability mismatch.
func (g *Gate) Check(ctx context.Context, spec RequirementSpec) (Decision, error) {
	id, ok := shared.IdentityFromContext(ctx)
	if !ok {
		g.record("unauthenticated")
		return Deny, ErrUnauthenticated
	}
	decision, err := g.evaluator.Evaluate(ctx, id.TenantID, id.UserID, spec)
	if err != nil {
		g.record("error")
		return Deny, err
	}
	if decision.Allowed() {
		g.record("allow")
	} else {
		g.record("deny")
	}
	return decision, nil
}

// Require returns chi middleware that short-circuits the request unless the
// caller satisfies the spec. It runs before any side effect of the wrapped
// handler.
func (g *Gate) Require(spec RequirementSpec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if spec.Empty() {
				next.ServeHTTP(w, r)
				return
			}
			decision, err := g.Check(r.Context(), spec)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no authenticated tenant or user")
					return
				}
				if g.logger != nil {
					g.logger.Error("authz check", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !decision.Allowed() {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", spec.Describe())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated returns middleware that only demands a resolvable
// identity, used by endpoints whose payload is already rights-filtered.
func (g *Gate) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); !ok {
			g.record("unauthenticated")
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no authenticated tenant or user")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckCapability is a convenience for programmatic single-capability calls,
// mapping outcomes onto the shared sentinel errors.
func (g *Gate) CheckCapability(ctx context.Context, cap Capability) error {
	decision, err := g.Check(ctx, RequireAll(cap))
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return fmt.Errorf("%w: %s", httpx.ErrUnauthenticated, cap.String())
		}
		return err
	}
	if !decision.Allowed() {
		return fmt.Errorf("%w: requires %s", httpx.ErrForbidden, cap.String())
	}
	return nil
}

func (g *Gate) record(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordDecision(outcome)
	}
}
