package repository

import (
	"context"
	"database/sql"
	"errors"

	"scopehub/internal/workspace/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a workspace repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the workspace for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, organization_id, created_at, updated_at FROM workspaces WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.OrganizationID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Create persists the workspace to the database. The workspace must have ID and OrganizationID set.
func (r *PostgresRepository) Create(ctx context.Context, w *domain.Workspace) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, organization_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Name, w.OrganizationID, w.CreatedAt, w.UpdatedAt,
	)
	return err
}
