package users

import "time"

// User is a back-office account. Authentication happens at the gateway;
// this module only manages the records grants attach to.
type User struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"-"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries fields for a new user.
type CreateInput struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required,min=10"`
}

// UpdateInput carries mutable fields.
type UpdateInput struct {
	FullName string `json:"fullName" validate:"required"`
	Active   *bool  `json:"active"`
}
