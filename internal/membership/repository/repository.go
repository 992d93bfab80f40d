package repository

import (
	"context"

	"scopehub/internal/membership/domain"
	scopedomain "scopehub/internal/scope/domain"
	userdomain "scopehub/internal/user/domain"
)

// MemberFilter narrows member-list queries. Zero value means no filtering.
type MemberFilter struct {
	// Name filters members by a case-insensitive name substring.
	Name string
}

// Repository defines persistence for user-role membership edges and the
// pre-joined projections built on them.
type Repository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.UserRole, error)
	FindByUserAndScope(ctx context.Context, userID, scopeID string) ([]domain.UserRole, error)
	Insert(ctx context.Context, ur *domain.UserRole) error
	// DeleteByUserScopeAndMarker deletes the user's rows in the scope whose
	// role id contains marker. The marker keeps deletion scope-kind-aware.
	DeleteByUserScopeAndMarker(ctx context.Context, userID, scopeID, marker string) error

	// AggregationRows returns one row per (role, scope) the user holds, joined
	// against role and scope names, with parent_id set only for workspaces.
	AggregationRows(ctx context.Context, userID string) ([]scopedomain.AggregationRow, error)

	// MemberList returns the users holding any role in the scope.
	MemberList(ctx context.Context, scopeID string, f MemberFilter) ([]*userdomain.User, error)
	// BesideOrgMembers returns the users holding no role in the organization.
	BesideOrgMembers(ctx context.Context, orgID string) ([]*userdomain.User, error)
}
