package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	"github.com/techvision/crm-finance/internal/models"
	"github.com/techvision/crm-finance/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a read-only repository over the users table.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserReader {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserReader = (*PgxUserRepository)(nil)

const userColumns = `id, username, real_name, password_hash, role, department_id, active, created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.ID,
		&m.Username,
		&m.RealName,
		&m.PasswordHash,
		&m.Role,
		&m.DepartmentID,
		&m.Active,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindUserByID retrieves a user by id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}

	d := mapping.ToDomainUser(m)
	return &d, nil
}

// FindUserByUsername retrieves a user by login name.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	d := mapping.ToDomainUser(m)
	return &d, nil
}

// HasPermission reports whether the user's role carries the permission code.
// Admins hold every code implicitly.
func (r *PgxUserRepository) HasPermission(ctx context.Context, userID int64, code string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM users u
			WHERE u.id = $1 AND u.active AND (
				u.role = 'admin'
				OR EXISTS (
					SELECT 1 FROM role_permissions rp
					WHERE rp.role = u.role AND rp.permission_code = $2
				)
			)
		);
	`
	var ok bool
	if err := r.Pool.QueryRow(ctx, query, userID, code).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check permission %q for user %d: %w", code, userID, err)
	}
	return ok, nil
}
