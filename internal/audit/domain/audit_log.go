package domain

import "time"

// AuditLog is one recorded membership or scope event.
type AuditLog struct {
	ID        string
	ScopeID   string
	UserID    string
	Action    string
	Resource  string
	Metadata  string
	CreatedAt time.Time
}
