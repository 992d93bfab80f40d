package repository

import (
	"context"

	"scopehub/internal/role/domain"
)

// Repository defines read access to roles.
type Repository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Role, error)
}
