package repository

import (
	"context"
	"database/sql"

	"scopehub/internal/membership/domain"
	scopedomain "scopehub/internal/scope/domain"
	userdomain "scopehub/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userRoleColumns = `id, user_id, role_id, source_id, created_at, updated_at`

// FindByUser returns all membership edges for the user across every scope.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) ([]domain.UserRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userRoleColumns+` FROM user_role WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRoles(rows)
}

// FindByUserAndScope returns the user's membership edges in the given scope.
// An empty slice means the user is not a member.
func (r *PostgresRepository) FindByUserAndScope(ctx context.Context, userID, scopeID string) ([]domain.UserRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userRoleColumns+` FROM user_role WHERE user_id = $1 AND source_id = $2 ORDER BY created_at, id`,
		userID, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRoles(rows)
}

// Insert persists one membership edge. The unique index on
// (user_id, source_id, role_id) serializes concurrent add-member races.
func (r *PostgresRepository) Insert(ctx context.Context, ur *domain.UserRole) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_role (id, user_id, role_id, source_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ur.ID, ur.UserID, ur.RoleID, ur.SourceID, ur.CreatedAt, ur.UpdatedAt,
	)
	return err
}

// DeleteByUserScopeAndMarker deletes the user's rows in the scope whose role id
// contains marker as a substring.
func (r *PostgresRepository) DeleteByUserScopeAndMarker(ctx context.Context, userID, scopeID, marker string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_role
		WHERE user_id = $1 AND source_id = $2 AND role_id LIKE '%' || $3 || '%'`,
		userID, scopeID, marker,
	)
	return err
}

// AggregationRows returns the pre-joined rows feeding scope aggregation:
// each membership edge with its role name and scope name, and the owning
// organization id when the scope is a workspace.
func (r *PostgresRepository) AggregationRows(ctx context.Context, userID string) ([]scopedomain.AggregationRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ur.source_id,
		       COALESCE(w.organization_id, '') AS parent_id,
		       ur.role_id,
		       r.name AS role_name,
		       COALESCE(w.name, o.name, '') AS source_name
		FROM user_role ur
		JOIN roles r ON r.id = ur.role_id
		LEFT JOIN workspaces w ON w.id = ur.source_id
		LEFT JOIN organizations o ON o.id = ur.source_id
		WHERE ur.user_id = $1
		ORDER BY ur.created_at, ur.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scopedomain.AggregationRow
	for rows.Next() {
		var row scopedomain.AggregationRow
		if err := rows.Scan(&row.SourceID, &row.ParentID, &row.RoleID, &row.RoleName, &row.SourceName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MemberList returns the distinct users holding any role in the scope,
// optionally filtered by name substring.
func (r *PostgresRepository) MemberList(ctx context.Context, scopeID string, f MemberFilter) ([]*userdomain.User, error) {
	query := `
		SELECT DISTINCT u.id, u.name, u.email, u.password_hash, u.status,
		       u.last_organization_id, u.last_workspace_id, u.created_at, u.updated_at
		FROM users u
		JOIN user_role ur ON ur.user_id = u.id
		WHERE ur.source_id = $1`
	args := []any{scopeID}
	if f.Name != "" {
		query += ` AND u.name ILIKE '%' || $2 || '%'`
		args = append(args, f.Name)
	}
	query += ` ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// BesideOrgMembers returns every user with no membership edge under orgID.
// The complement is computed storage-side.
func (r *PostgresRepository) BesideOrgMembers(ctx context.Context, orgID string) ([]*userdomain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.status,
		       u.last_organization_id, u.last_workspace_id, u.created_at, u.updated_at
		FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM user_role ur WHERE ur.user_id = u.id AND ur.source_id = $1
		)
		ORDER BY u.id`,
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUserRoles(rows *sql.Rows) ([]domain.UserRole, error) {
	var out []domain.UserRole
	for rows.Next() {
		var ur domain.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.RoleID, &ur.SourceID, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ur)
	}
	return out, rows.Err()
}

func scanUsers(rows *sql.Rows) ([]*userdomain.User, error) {
	var out []*userdomain.User
	for rows.Next() {
		var u userdomain.User
		var status string
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &status,
			&u.LastOrganizationID, &u.LastWorkspaceID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.Status = userdomain.UserStatus(status)
		out = append(out, &u)
	}
	return out, rows.Err()
}
