package domain

// Role is a named permission bundle. Read-only from this module's perspective:
// roles are provisioned administratively and only referenced by memberships.
type Role struct {
	ID   string
	Name string
}
