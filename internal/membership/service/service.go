// Package service implements the membership mutation protocol: batch add with
// per-user conflict checking and scope-kind-aware revocation.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scopehub/internal/audit"
	"scopehub/internal/membership/domain"
	"scopehub/internal/membership/repository"
	userdomain "scopehub/internal/user/domain"
)

// ErrMembershipConflict is returned by AddMembers when at least one user in
// the batch already belongs to the scope. Per-user detail is in the results.
var ErrMembershipConflict = errors.New("membership conflict in batch")

// ErrInvalidScopeKind is returned by RemoveMember for an unknown scope kind.
var ErrInvalidScopeKind = errors.New("invalid scope kind")

// MembershipRepo is the membership persistence needed by the service.
type MembershipRepo interface {
	FindByUserAndScope(ctx context.Context, userID, scopeID string) ([]domain.UserRole, error)
	Insert(ctx context.Context, ur *domain.UserRole) error
	DeleteByUserScopeAndMarker(ctx context.Context, userID, scopeID, marker string) error
	MemberList(ctx context.Context, scopeID string, f repository.MemberFilter) ([]*userdomain.User, error)
	BesideOrgMembers(ctx context.Context, orgID string) ([]*userdomain.User, error)
}

// UserGetter resolves users for conflict messages.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Service manages user-role membership edges for organizations and workspaces.
type Service struct {
	memberships MembershipRepo
	users       UserGetter
	audit       audit.Recorder
	log         *zap.Logger
}

// NewService returns a membership Service. rec may be nil to disable audit
// events; log may be nil for no logging.
func NewService(memberships MembershipRepo, users UserGetter, rec audit.Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{memberships: memberships, users: users, audit: rec, log: log}
}

// AddResult is the per-user outcome of an AddMembers batch. Err is nil on
// success and a *domain.ConflictError when the user already belongs to the scope.
type AddResult struct {
	UserID string
	Err    error
}

// AddMembers grants every role in roleIDs to each user in userIDs within the
// scope. Users are evaluated independently: a user with any existing edge in
// the scope gets a conflict result and no inserts, while the rest of the batch
// proceeds. Returns one result per input user id (duplicates included) and
// ErrMembershipConflict if any user conflicted; commit-or-rollback of the
// partial batch belongs to the caller's ambient transaction.
func (s *Service) AddMembers(ctx context.Context, scopeID string, userIDs, roleIDs []string) ([]AddResult, error) {
	results := make([]AddResult, 0, len(userIDs))
	conflicted := false

	for _, userID := range userIDs {
		existing, err := s.memberships.FindByUserAndScope(ctx, userID, scopeID)
		if err != nil {
			return results, err
		}
		if len(existing) > 0 {
			conflicted = true
			results = append(results, AddResult{UserID: userID, Err: s.conflict(ctx, userID, scopeID)})
			continue
		}
		now := time.Now().UTC()
		for _, roleID := range roleIDs {
			ur := &domain.UserRole{
				ID:        uuid.New().String(),
				UserID:    userID,
				RoleID:    roleID,
				SourceID:  scopeID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.memberships.Insert(ctx, ur); err != nil {
				return results, err
			}
		}
		if s.audit != nil {
			s.audit.Record(ctx, scopeID, userID, "member_added", "membership", "")
		}
		results = append(results, AddResult{UserID: userID})
	}

	if conflicted {
		return results, ErrMembershipConflict
	}
	return results, nil
}

// RemoveMember revokes the user's membership in the scope, deleting only the
// rows whose role id carries the kind's marker so organization roles survive a
// workspace revocation under a colliding scope id, and vice versa.
func (s *Service) RemoveMember(ctx context.Context, scopeID, userID string, kind domain.ScopeKind) error {
	if !kind.Valid() {
		return ErrInvalidScopeKind
	}
	if err := s.memberships.DeleteByUserScopeAndMarker(ctx, userID, scopeID, kind.RoleMarker()); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Record(ctx, scopeID, userID, "member_removed", "membership", string(kind))
	}
	return nil
}

// MemberList returns the users holding any role in the workspace scope.
func (s *Service) MemberList(ctx context.Context, scopeID string, f repository.MemberFilter) ([]*userdomain.User, error) {
	return s.memberships.MemberList(ctx, scopeID, f)
}

// OrgMemberList returns the users holding any role in the organization scope.
func (s *Service) OrgMemberList(ctx context.Context, orgID string, f repository.MemberFilter) ([]*userdomain.User, error) {
	return s.memberships.MemberList(ctx, orgID, f)
}

// BesideOrgMembers returns the users holding no role in the organization.
func (s *Service) BesideOrgMembers(ctx context.Context, orgID string) ([]*userdomain.User, error) {
	return s.memberships.BesideOrgMembers(ctx, orgID)
}

func (s *Service) conflict(ctx context.Context, userID, scopeID string) *domain.ConflictError {
	name := ""
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, userID); err == nil && u != nil {
			name = u.Name
		}
	}
	s.log.Debug("member already in scope",
		zap.String("user_id", userID),
		zap.String("scope_id", scopeID))
	return &domain.ConflictError{UserID: userID, UserName: name, ScopeID: scopeID}
}
