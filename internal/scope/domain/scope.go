package domain

// ScopeType classifies a ScopeRoleView entry.
type ScopeType string

const (
	ScopeTypeOrganization ScopeType = "organization"
	ScopeTypeWorkspace    ScopeType = "workspace"
	ScopeTypeAdmin        ScopeType = "admin"
)

// AggregationRow is one pre-joined (user, role, scope) tuple from storage.
// ParentID is non-empty iff SourceID is a workspace.
type AggregationRow struct {
	SourceID   string
	ParentID   string
	RoleID     string
	RoleName   string
	SourceName string
}

// ScopeRoleView is one entry of the aggregated scope-switcher list: a scope the
// user can operate in, with the role names they hold there merged into
// Description. Views are computed fresh per call and never persisted.
type ScopeRoleView struct {
	ID          string
	Type        ScopeType
	Name        string
	ParentID    string
	Description string
	Switchable  bool
}
