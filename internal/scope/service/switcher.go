package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"scopehub/internal/audit"
	membershipdomain "scopehub/internal/membership/domain"
	userdomain "scopehub/internal/user/domain"
	workspacedomain "scopehub/internal/workspace/domain"
)

// ErrScopeNotFound is returned when a switch targets a workspace that does not exist.
var ErrScopeNotFound = errors.New("scope not found")

// ErrInvalidScopeKind is returned when a switch names an unknown scope kind.
var ErrInvalidScopeKind = errors.New("invalid scope kind")

// WorkspaceGetter resolves a workspace to derive its owning organization.
type WorkspaceGetter interface {
	GetByID(ctx context.Context, id string) (*workspacedomain.Workspace, error)
}

// ActiveScopeUpdater persists the partial active-scope update on the user record.
type ActiveScopeUpdater interface {
	UpdateActiveScope(ctx context.Context, id, orgID, workspaceID string, at time.Time) error
}

// ActiveUserPublisher receives the updated user after a successful switch so
// the caller's next requests see the new active scope immediately.
type ActiveUserPublisher interface {
	PublishActiveUser(ctx context.Context, u *userdomain.User) error
}

// Switcher performs the active-scope state transition for a user.
type Switcher struct {
	workspaces WorkspaceGetter
	users      ActiveScopeUpdater
	sessions   ActiveUserPublisher
	audit      audit.Recorder
	log        *zap.Logger
}

// NewSwitcher returns a Switcher with the given dependencies. audit may be nil
// to disable audit events; log may be nil for no logging.
func NewSwitcher(workspaces WorkspaceGetter, users ActiveScopeUpdater, sessions ActiveUserPublisher, rec audit.Recorder, log *zap.Logger) *Switcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Switcher{workspaces: workspaces, users: users, sessions: sessions, audit: rec, log: log}
}

// SwitchScope moves the user into the target scope. Switching into an
// organization clears the workspace; switching into a workspace sets both the
// workspace and its owning organization. The input user is not mutated; the
// returned copy carries the new active scope.
func (s *Switcher) SwitchScope(ctx context.Context, user *userdomain.User, kind membershipdomain.ScopeKind, targetID string) (*userdomain.User, error) {
	updated := *user
	switch kind {
	case membershipdomain.ScopeKindOrganization:
		updated.LastOrganizationID = targetID
		updated.LastWorkspaceID = ""
	case membershipdomain.ScopeKindWorkspace:
		ws, err := s.workspaces.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			return nil, fmt.Errorf("%w: workspace %s", ErrScopeNotFound, targetID)
		}
		updated.LastOrganizationID = ws.OrganizationID
		updated.LastWorkspaceID = targetID
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScopeKind, kind)
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateActiveScope(ctx, updated.ID, updated.LastOrganizationID, updated.LastWorkspaceID, updated.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.sessions.PublishActiveUser(ctx, &updated); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Record(ctx, targetID, updated.ID, "scope_switched", string(kind), "")
	}
	s.log.Debug("switched scope",
		zap.String("user_id", updated.ID),
		zap.String("kind", string(kind)),
		zap.String("target", targetID))
	return &updated, nil
}
