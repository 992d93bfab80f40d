// Package service implements credential verification for stored user secrets.
package service

import (
	"context"
	"errors"

	"scopehub/internal/security"
	userdomain "scopehub/internal/user/domain"
)

var (
	// ErrBlankUserID is returned when Verify is called with an empty user id.
	ErrBlankUserID = errors.New("user id cannot be blank")
	// ErrBlankPassword is returned when Verify is called with an empty password.
	ErrBlankPassword = errors.New("password cannot be blank")
)

// UserSource resolves the stored credential hash for a user id.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// CredentialVerifier checks a supplied secret against the stored hash for a
// user. It returns a boolean, never the user row, and performs no lockout or
// rate limiting.
type CredentialVerifier struct {
	users  UserSource
	hasher *security.Hasher
}

// NewCredentialVerifier returns a CredentialVerifier with the given dependencies.
func NewCredentialVerifier(users UserSource, hasher *security.Hasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Verify reports whether password matches the stored hash for userID.
// Blank arguments are a validation error; an unknown user or mismatched
// password is false without error.
func (v *CredentialVerifier) Verify(ctx context.Context, userID, password string) (bool, error) {
	if userID == "" {
		return false, ErrBlankUserID
	}
	if password == "" {
		return false, ErrBlankPassword
	}
	u, err := v.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil || u.PasswordHash == "" {
		return false, nil
	}
	if err := v.hasher.Compare(u.PasswordHash, password); err != nil {
		return false, nil
	}
	return true, nil
}
