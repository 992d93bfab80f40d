package repository

import (
	"context"

	"scopehub/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	Create(ctx context.Context, o *domain.Organization) error
}
