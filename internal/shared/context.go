package shared

import "context"

// Identity describes the authenticated caller as resolved by the upstream
// gateway. Tenant and user are always set together; a zero Identity means
// the request is unauthenticated.
type Identity struct {
	TenantID int64
	UserID   int64
}

// Valid reports whether the identity carries a usable tenant and user.
func (id Identity) Valid() bool {
	return id.TenantID > 0 && id.UserID > 0
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || !id.Valid() {
		return Identity{}, false
	}
	return id, true
}
