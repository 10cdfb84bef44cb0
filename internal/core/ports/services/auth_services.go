package services

import (
	"context"

	"github.com/techvision/crm-finance/internal/dto"
)

// AuthSvc authenticates back-office users and answers permission checks.
// It is the trust boundary for every mutating operation: handlers gate on
// HasPermission and never re-derive access themselves.
type AuthSvc interface {
	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// HasPermission reports whether the user holds the permission code.
	HasPermission(ctx context.Context, userID int64, code string) (bool, error)
}
