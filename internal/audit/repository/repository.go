package repository

import (
	"context"

	"scopehub/internal/audit/domain"
)

// Repository defines persistence for audit log entries.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByScope(ctx context.Context, scopeID string, limit, offset int32) ([]*domain.AuditLog, error)
}
