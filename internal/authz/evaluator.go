package authz

import (
	"context"
	"fmt"
)

// Evaluator decides whether a caller holds the capabilities a spec demands.
// Evaluation has no side effects: the same grant snapshot always produces
// the same decision, which is what makes version-keyed caching sound.
type Evaluator struct {
	store Store
}

// NewEvaluator constructs an evaluator over the given grant store.
func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate loads the caller's grant snapshot and tests the spec against it.
func (e *Evaluator) Evaluate(ctx context.Context, tenantID, userID int64, spec RequirementSpec) (Decision, error) {
	if spec.Empty() {
		return Allow, nil
	}
	snapshot, err := e.Snapshot(ctx, tenantID, userID)
	if err != nil {
		return Deny, err
	}
	return snapshot.Evaluate(spec), nil
}

// Snapshot exposes the underlying grant snapshot so view assemblers can
// evaluate many specs against one consistent read.
func (e *Evaluator) Snapshot(ctx context.Context, tenantID, userID int64) (Snapshot, error) {
	snapshot, err := e.store.Snapshot(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("authz: load grants: %w", err)
	}
	return snapshot, nil
}
