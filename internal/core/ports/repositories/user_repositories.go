package repositories

import (
	"context"

	"github.com/techvision/crm-finance/internal/core/domain"
)

// UserReader defines the read operations needed by authentication and the
// permission gate.
type UserReader interface {
	// FindUserByID retrieves a user by id.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByUsername retrieves a user by login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// HasPermission reports whether the user's role carries the permission
	// code. Admins implicitly hold every code.
	HasPermission(ctx context.Context, userID int64, code string) (bool, error)
}
