package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/shared"
)

// UserFilter holds query criteria for listing users
type UserFilter struct {
	shared.Filter
	Search string
	Role   *Role
	Status *UserStatus
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) (*shared.Paginated[*User], error)
	ExistsByUsername(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, user *User) error
	// ReplaceSites rewrites the user's site restrictions in one transaction
	ReplaceSites(ctx context.Context, userID uuid.UUID, siteIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
