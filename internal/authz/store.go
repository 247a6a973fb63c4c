package authz

import "context"

// Store reads durable capability grants. Implementations must be safe for
// concurrent use; grants are read-mostly and written only through the
// rights-management service.
type Store interface {
	// Grant returns the rights bitmask for one module. A missing row yields
	// zero rights and no error.
	Grant(ctx context.Context, tenantID, userID int64, module string) (Rights, error)
	// Snapshot returns every grant a user holds, keyed by module code.
	Snapshot(ctx context.Context, tenantID, userID int64) (Snapshot, error)
}
