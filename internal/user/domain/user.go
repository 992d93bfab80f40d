package domain

import (
	"errors"
	"time"
)

// User is the core user entity. LastOrganizationID and LastWorkspaceID together
// encode the active scope: workspace empty means organization-scoped, workspace
// set means workspace-scoped with LastOrganizationID holding the owning org.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Status             UserStatus
	LastOrganizationID string
	LastWorkspaceID    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type UserStatus string

const (
	UserStatusEnabled  UserStatus = "enabled"
	UserStatusDisabled UserStatus = "disabled"
)

var (
	ErrNameRequired  = errors.New("user name is required")
	ErrEmailRequired = errors.New("user email is required")
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.Status == "" {
		u.Status = UserStatusEnabled
	}
	return nil
}
