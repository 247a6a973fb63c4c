// Package rights manages per-user capability grants. Every durable grant
// mutation ends with a rights-version bump so permission-derived view
// caches key themselves past the stale entries.
package rights

// ModuleRights is one module's granted actions in API shape.
type ModuleRights struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// UserRights is a user's full grant matrix plus the current rights version.
type UserRights struct {
	UserID  int64          `json:"userId"`
	Version int64          `json:"version"`
	Grants  []ModuleRights `json:"grants"`
}

// GrantInput is one module assignment in a replace request.
type GrantInput struct {
	Module  string   `json:"module" validate:"required"`
	Actions []string `json:"actions" validate:"required,min=1,dive,oneof=VIEW ADD EDIT DELETE PRINT"`
}

// ReplaceInput replaces a user's whole grant matrix in one atomic write.
type ReplaceInput struct {
	Grants []GrantInput `json:"grants" validate:"dive"`
}
