package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"scopehub/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, status, last_organization_id, last_workspace_id, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// FindByEmail returns all users with the given email. The unique index on
// users(email) means this is zero-or-one in practice; the slice shape keeps the
// uniqueness check on the caller side explicit.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, status, last_organization_id, last_workspace_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Status),
		u.LastOrganizationID, u.LastWorkspaceID, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// Update updates the existing user record in the database.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, status = $5,
		    last_organization_id = $6, last_workspace_id = $7, updated_at = $8
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Status),
		u.LastOrganizationID, u.LastWorkspaceID, u.UpdatedAt,
	)
	return err
}

// UpdateActiveScope updates only last_organization_id, last_workspace_id, and updated_at.
func (r *PostgresRepository) UpdateActiveScope(ctx context.Context, id, orgID, workspaceID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_organization_id = $2, last_workspace_id = $3, updated_at = $4
		WHERE id = $1`,
		id, orgID, workspaceID, at,
	)
	return err
}

// Delete removes the user record. Deleting a missing user is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var u domain.User
	var status string
	if err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &status,
		&u.LastOrganizationID, &u.LastWorkspaceID, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	return &u, nil
}
