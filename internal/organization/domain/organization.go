package domain

import (
	"errors"
	"time"
)

// Organization is a top-level scope. It has no parent.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the organization for persistence. Returns an error describing the first validation failure.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return errors.New("organization name is required")
	}
	return nil
}
