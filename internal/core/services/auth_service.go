package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/techvision/crm-finance/internal/apperrors"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/utils"
)

// AuthService authenticates users and answers permission checks.
type AuthService struct {
	userRepo  portsrepo.UserReader
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserReader, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

// Login verifies the credentials and issues a bearer token. Unknown users
// and wrong passwords both map to ErrForbidden so the response does not leak
// which usernames exist.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to look up user %q: %w", req.Username, err)
	}
	if !user.Active || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}

	token, err := utils.GenerateJWT(strconv.FormatInt(user.ID, 10), s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token for user %d: %w", user.ID, err)
	}
	return &dto.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		RealName: user.RealName,
		Role:     string(user.Role),
	}, nil
}

// HasPermission reports whether the user's role carries the permission code.
func (s *AuthService) HasPermission(ctx context.Context, userID int64, code string) (bool, error) {
	ok, err := s.userRepo.HasPermission(ctx, userID, code)
	if err != nil {
		return false, fmt.Errorf("failed to check permission %q for user %d: %w", code, userID, err)
	}
	return ok, nil
}
