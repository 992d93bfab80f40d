// Package service implements user lifecycle operations: creation with email
// uniqueness, profile reads with role resolution, update, and deletion.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scopehub/internal/audit"
	membershipdomain "scopehub/internal/membership/domain"
	roledomain "scopehub/internal/role/domain"
	"scopehub/internal/security"
	"scopehub/internal/user/domain"
)

// ErrEmailTaken is returned when creating a user with an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserRepo is the user persistence needed by the service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// UserRoleSource supplies the user's membership edges for the profile view.
type UserRoleSource interface {
	FindByUser(ctx context.Context, userID string) ([]membershipdomain.UserRole, error)
}

// RoleFinder resolves role ids to role records.
type RoleFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]roledomain.Role, error)
}

// Service manages users.
type Service struct {
	users  UserRepo
	edges  UserRoleSource
	roles  RoleFinder
	hasher *security.Hasher
	audit  audit.Recorder
	log    *zap.Logger
}

// NewService returns a user Service. rec may be nil to disable audit events;
// log may be nil for no logging.
func NewService(users UserRepo, edges UserRoleSource, roles RoleFinder, hasher *security.Hasher, rec audit.Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, edges: edges, roles: roles, hasher: hasher, audit: rec, log: log}
}

// CreateUserInput carries the fields for user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// Create validates the input, enforces email uniqueness, hashes the password,
// and persists a new enabled user.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
		Status:    domain.UserStatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.users.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}
	if in.Password != "" {
		hashed, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Record(ctx, "", u.ID, "user_created", "user", u.Email)
	}
	s.log.Info("user created", zap.String("user_id", u.ID))
	return u, nil
}

// Get returns the user for id, or nil if absent. A missing user is not an error.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Profile is a user together with their membership edges and resolved roles.
type Profile struct {
	User      *domain.User
	UserRoles []membershipdomain.UserRole
	Roles     []roledomain.Role
}

// Profile returns the user with their roles resolved, or nil if the user is absent.
func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	edges, err := s.edges.FindByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u, UserRoles: edges}
	if len(edges) == 0 {
		return p, nil
	}
	seen := make(map[string]struct{}, len(edges))
	roleIDs := make([]string, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.RoleID]; ok {
			continue
		}
		seen[e.RoleID] = struct{}{}
		roleIDs = append(roleIDs, e.RoleID)
	}
	roles, err := s.roles.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	p.Roles = roles
	return p, nil
}

// RolesOf returns the distinct roles the user holds across all scopes.
func (s *Service) RolesOf(ctx context.Context, userID string) ([]roledomain.Role, error) {
	edges, err := s.edges.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []roledomain.Role{}, nil
	}
	seen := make(map[string]struct{}, len(edges))
	roleIDs := make([]string, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.RoleID]; ok {
			continue
		}
		seen[e.RoleID] = struct{}{}
		roleIDs = append(roleIDs, e.RoleID)
	}
	return s.roles.FindByIDs(ctx, roleIDs)
}

// Update refreshes updated_at and persists the user record.
func (s *Service) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, u)
}

// Delete removes the user record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Record(ctx, "", id, "user_deleted", "user", "")
	}
	return nil
}
