package domain

import (
	"fmt"
	"time"
)

// UserRole links a user to a role within a scope. SourceID is either an
// organization id or a workspace id; the row itself does not record which.
type UserRole struct {
	ID        string
	UserID    string
	RoleID    string
	SourceID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScopeKind selects between the two scope kinds a membership can belong to.
type ScopeKind string

const (
	ScopeKindOrganization ScopeKind = "organization"
	ScopeKindWorkspace    ScopeKind = "workspace"
)

// Valid reports whether k is a known scope kind.
func (k ScopeKind) Valid() bool {
	return k == ScopeKindOrganization || k == ScopeKindWorkspace
}

// RoleMarker returns the legacy role-id substring identifying roles of this
// scope kind. Membership deletion filters on it so revoking a workspace
// membership never touches organization roles sharing the same source id.
func (k ScopeKind) RoleMarker() string {
	switch k {
	case ScopeKindWorkspace:
		return "test"
	case ScopeKindOrganization:
		return "org"
	default:
		return ""
	}
}

// ConflictError reports an add-member attempt for a (user, scope) pair that
// already holds a membership.
type ConflictError struct {
	UserID   string
	UserName string
	ScopeID  string
}

func (e *ConflictError) Error() string {
	name := e.UserName
	if name == "" {
		name = e.UserID
	}
	return fmt.Sprintf("user [%s] already exists in scope %s", name, e.ScopeID)
}
