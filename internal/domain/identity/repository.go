package identity

import (
	"context"

	"github.com/inventaris/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByRole finds all active users with the given role
	FindByRole(ctx context.Context, role Role) ([]User, error)

	// FindAll finds users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// DepartmentRepository defines the interface for department persistence
type DepartmentRepository interface {
	// FindByID finds a department by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)

	// FindAll finds all departments
	FindAll(ctx context.Context, filter shared.Filter) ([]Department, error)

	// Save creates or updates a department
	Save(ctx context.Context, dept *Department) error
}

// Authorizer is the capability gate consulted before workflow operations.
// The actual permission storage lives outside this service.
type Authorizer interface {
	// Can reports whether the user may perform action on subject
	Can(ctx context.Context, userID uuid.UUID, action, subject string) (bool, error)
}

// AllowAllAuthorizer grants every capability. Used in tests and when the
// external permission service is not wired.
type AllowAllAuthorizer struct{}

// Can always returns true
func (AllowAllAuthorizer) Can(_ context.Context, _ uuid.UUID, _, _ string) (bool, error) {
	return true, nil
}
