package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scopehub/internal/membership/domain"
	"scopehub/internal/membership/repository"
	userdomain "scopehub/internal/user/domain"
)

// memMembershipRepo implements MembershipRepo in memory with the same
// substring-marker deletion semantics as the Postgres repository.
type memMembershipRepo struct {
	edges     []domain.UserRole
	insertErr error
}

func (m *memMembershipRepo) FindByUserAndScope(ctx context.Context, userID, scopeID string) ([]domain.UserRole, error) {
	var out []domain.UserRole
	for _, e := range m.edges {
		if e.UserID == userID && e.SourceID == scopeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memMembershipRepo) Insert(ctx context.Context, ur *domain.UserRole) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.edges = append(m.edges, *ur)
	return nil
}

func (m *memMembershipRepo) DeleteByUserScopeAndMarker(ctx context.Context, userID, scopeID, marker string) error {
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.UserID == userID && e.SourceID == scopeID && strings.Contains(e.RoleID, marker) {
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return nil
}

func (m *memMembershipRepo) MemberList(ctx context.Context, scopeID string, f repository.MemberFilter) ([]*userdomain.User, error) {
	return nil, nil
}

func (m *memMembershipRepo) BesideOrgMembers(ctx context.Context, orgID string) ([]*userdomain.User, error) {
	return nil, nil
}

type memUserGetter struct {
	users map[string]*userdomain.User
}

func (m *memUserGetter) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	return m.users[id], nil
}

func newTestService(repo *memMembershipRepo, users map[string]*userdomain.User) *Service {
	return NewService(repo, &memUserGetter{users: users}, nil, nil)
}

func TestAddMembers_CreatesOneRowPerRole(t *testing.T) {
	repo := &memMembershipRepo{}
	svc := newTestService(repo, nil)

	results, err := svc.AddMembers(context.Background(), "ws-1", []string{"u1"}, []string{"test_user", "test_admin"})
	if err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}
	if len(repo.edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(repo.edges))
	}
	for _, e := range repo.edges {
		if e.UserID != "u1" || e.SourceID != "ws-1" {
			t.Errorf("edge = %+v", e)
		}
		if e.ID == "" || e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
			t.Errorf("edge missing id/timestamps: %+v", e)
		}
	}
}

func TestAddMembers_ConflictAddsNothingForThatUser(t *testing.T) {
	repo := &memMembershipRepo{edges: []domain.UserRole{
		{ID: "e1", UserID: "u1", RoleID: "test_user", SourceID: "ws-1"},
	}}
	users := map[string]*userdomain.User{"u1": {ID: "u1", Name: "Alice"}}
	svc := newTestService(repo, users)

	results, err := svc.AddMembers(context.Background(), "ws-1", []string{"u1"}, []string{"test_admin"})
	if !errors.Is(err, ErrMembershipConflict) {
		t.Fatalf("err = %v, want ErrMembershipConflict", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	var conflict *domain.ConflictError
	if !errors.As(results[0].Err, &conflict) {
		t.Fatalf("result err = %v, want *ConflictError", results[0].Err)
	}
	if conflict.UserName != "Alice" {
		t.Errorf("conflict names %q, want Alice", conflict.UserName)
	}
	if len(repo.edges) != 1 {
		t.Errorf("edges = %d, want 1 (no new rows)", len(repo.edges))
	}
}

func TestAddMembers_BatchContinuesPastConflict(t *testing.T) {
	repo := &memMembershipRepo{edges: []domain.UserRole{
		{ID: "e1", UserID: "u1", RoleID: "test_user", SourceID: "ws-1"},
	}}
	svc := newTestService(repo, map[string]*userdomain.User{"u1": {ID: "u1", Name: "Alice"}})

	results, err := svc.AddMembers(context.Background(), "ws-1", []string{"u1", "u2"}, []string{"test_user"})
	if !errors.Is(err, ErrMembershipConflict) {
		t.Fatalf("err = %v, want ErrMembershipConflict", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("u1 should conflict")
	}
	if results[1].Err != nil {
		t.Errorf("u2 should succeed, got %v", results[1].Err)
	}
	// u2's row was inserted despite the earlier conflict.
	found := false
	for _, e := range repo.edges {
		if e.UserID == "u2" {
			found = true
		}
	}
	if !found {
		t.Error("u2's membership row should exist")
	}
}

func TestAddMembers_DuplicateInputProcessedIndependently(t *testing.T) {
	repo := &memMembershipRepo{}
	svc := newTestService(repo, map[string]*userdomain.User{})

	// The second occurrence sees the rows the first one inserted.
	results, err := svc.AddMembers(context.Background(), "ws-1", []string{"u1", "u1"}, []string{"test_user"})
	if !errors.Is(err, ErrMembershipConflict) {
		t.Fatalf("err = %v, want ErrMembershipConflict", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Err != nil || results[1].Err == nil {
		t.Errorf("results = %+v, want first ok, second conflict", results)
	}
	if len(repo.edges) != 1 {
		t.Errorf("edges = %d, want 1", len(repo.edges))
	}
}

func TestRemoveThenAddSucceeds(t *testing.T) {
	repo := &memMembershipRepo{edges: []domain.UserRole{
		{ID: "e1", UserID: "u1", RoleID: "test_user", SourceID: "ws-1"},
	}}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.RemoveMember(ctx, "ws-1", "u1", domain.ScopeKindWorkspace); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	results, err := svc.AddMembers(ctx, "ws-1", []string{"u1"}, []string{"test_user", "test_admin"})
	if err != nil {
		t.Fatalf("AddMembers after remove: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("result err = %v", results[0].Err)
	}
	if len(repo.edges) != 2 {
		t.Errorf("edges = %d, want exactly len(roleIDs) = 2", len(repo.edges))
	}
}

func TestRemoveMember_ScopeKindIsolation(t *testing.T) {
	// Degenerate data: the same literal scope id carries both a workspace role
	// and an organization role for one user.
	repo := &memMembershipRepo{edges: []domain.UserRole{
		{ID: "e1", UserID: "u1", RoleID: "test_user", SourceID: "scope-x"},
		{ID: "e2", UserID: "u1", RoleID: "org_admin", SourceID: "scope-x"},
	}}
	svc := newTestService(repo, nil)

	if err := svc.RemoveMember(context.Background(), "scope-x", "u1", domain.ScopeKindWorkspace); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if len(repo.edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(repo.edges))
	}
	if repo.edges[0].RoleID != "org_admin" {
		t.Errorf("surviving role = %q, want org_admin", repo.edges[0].RoleID)
	}
}

func TestRemoveMember_InvalidKind(t *testing.T) {
	svc := newTestService(&memMembershipRepo{}, nil)
	err := svc.RemoveMember(context.Background(), "ws-1", "u1", domain.ScopeKind("project"))
	if !errors.Is(err, ErrInvalidScopeKind) {
		t.Fatalf("err = %v, want ErrInvalidScopeKind", err)
	}
}

func TestAddMembers_InsertErrorStopsBatch(t *testing.T) {
	repo := &memMembershipRepo{insertErr: errors.New("db down")}
	svc := newTestService(repo, nil)

	_, err := svc.AddMembers(context.Background(), "ws-1", []string{"u1"}, []string{"test_user"})
	if err == nil || errors.Is(err, ErrMembershipConflict) {
		t.Fatalf("err = %v, want storage error", err)
	}
}
