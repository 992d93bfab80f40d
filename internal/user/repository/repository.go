package repository

import (
	"context"
	"time"

	"scopehub/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns all users with the given email; used for the
	// uniqueness check on creation.
	FindByEmail(ctx context.Context, email string) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// UpdateActiveScope updates only the active-scope fields and updated_at.
	UpdateActiveScope(ctx context.Context, id, orgID, workspaceID string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
