package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scopehub/internal/audit/domain"
	auditrepo "scopehub/internal/audit/repository"
)

// SentinelScopeID is the scope_id used for events with no scope (e.g. user creation).
const SentinelScopeID = "_system"

// Recorder writes a single audit event with explicit action/resource. Used by
// the membership, user, and scope services. Record is best-effort: failures
// are logged and do not affect the caller.
type Recorder interface {
	Record(ctx context.Context, scopeID, userID, action, resource, metadata string)
}

// Logger implements Recorder using the audit repository.
type Logger struct {
	repo auditrepo.Repository
	log  *zap.Logger
}

// NewLogger returns a Recorder that persists to repo. log may be nil.
func NewLogger(repo auditrepo.Repository, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{repo: repo, log: log}
}

// Record writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) Record(ctx context.Context, scopeID, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	if scopeID == "" {
		scopeID = SentinelScopeID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		ScopeID:   scopeID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("scope_id", scopeID),
			zap.Error(err))
	}
}
