package domain

import (
	"errors"
	"time"
)

// Workspace is a scope nested under exactly one organization.
type Workspace struct {
	ID             string
	Name           string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the workspace for persistence. Returns an error describing the first validation failure.
func (w *Workspace) Validate() error {
	if w.Name == "" {
		return errors.New("workspace name is required")
	}
	if w.OrganizationID == "" {
		return errors.New("workspace organization id is required")
	}
	return nil
}
