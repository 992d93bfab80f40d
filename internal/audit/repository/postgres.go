package repository

import (
	"context"
	"database/sql"

	"scopehub/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists one audit entry.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, scope_id, user_id, action, resource, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.ScopeID, entry.UserID, entry.Action, entry.Resource, entry.Metadata, entry.CreatedAt,
	)
	return err
}

// ListByScope returns entries for the scope, newest first.
func (r *PostgresRepository) ListByScope(ctx context.Context, scopeID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scope_id, user_id, action, resource, metadata, created_at
		FROM audit_log
		WHERE scope_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		scopeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.ID, &e.ScopeID, &e.UserID, &e.Action, &e.Resource, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
