// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"scopehub/internal/config"
	"scopehub/internal/db"
	membershipdomain "scopehub/internal/membership/domain"
	membershiprepo "scopehub/internal/membership/repository"
	orgdomain "scopehub/internal/organization/domain"
	orgrepo "scopehub/internal/organization/repository"
	"scopehub/internal/security"
	userdomain "scopehub/internal/user/domain"
	userrepo "scopehub/internal/user/repository"
	workspacedomain "scopehub/internal/workspace/domain"
	workspacerepo "scopehub/internal/workspace/repository"
)

const (
	devUserEmail  = "dev@example.com"
	devUser2Email = "dev2@example.com"
	devPassword   = "password123"

	devOrgID       = "dev-org-001"
	devWorkspaceID = "dev-ws-001"

	// Role ids carry the scope-kind markers used by scope-aware deletion.
	orgAdminRoleID  = "org_admin"
	orgMemberRoleID = "org_member"
	wsAdminRoleID   = "test_manager"
	wsMemberRoleID  = "test_user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env or set DATABASE_URL")
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.FindByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("seed: %s already exists, nothing to do", devUserEmail)
		return
	}

	now := time.Now().UTC()
	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	orgs := orgrepo.NewPostgresRepository(conn)
	if err := orgs.Create(ctx, &orgdomain.Organization{
		ID: devOrgID, Name: "Dev Organization", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seed org: %v", err)
	}

	workspaces := workspacerepo.NewPostgresRepository(conn)
	if err := workspaces.Create(ctx, &workspacedomain.Workspace{
		ID: devWorkspaceID, Name: "Dev Workspace", OrganizationID: devOrgID, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seed workspace: %v", err)
	}

	roles := map[string]string{
		orgAdminRoleID:  "Org Admin",
		orgMemberRoleID: "Org Member",
		wsAdminRoleID:   "Workspace Manager",
		wsMemberRoleID:  "Workspace User",
	}
	for id, name := range roles {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, id, name); err != nil {
			log.Fatalf("seed role %s: %v", id, err)
		}
	}

	devUser := &userdomain.User{
		ID:                 uuid.New().String(),
		Name:               "Dev User",
		Email:              devUserEmail,
		PasswordHash:       hash,
		Status:             userdomain.UserStatusEnabled,
		LastOrganizationID: devOrgID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	devUser2 := &userdomain.User{
		ID:        uuid.New().String(),
		Name:      "Dev User Two",
		Email:     devUser2Email,
		Status:    userdomain.UserStatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, u := range []*userdomain.User{devUser, devUser2} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	memberships := membershiprepo.NewPostgresRepository(conn)
	edges := []struct {
		userID, roleID, sourceID string
	}{
		{devUser.ID, orgAdminRoleID, devOrgID},
		{devUser.ID, wsAdminRoleID, devWorkspaceID},
		{devUser2.ID, wsMemberRoleID, devWorkspaceID},
	}
	for _, e := range edges {
		if err := memberships.Insert(ctx, &membershipdomain.UserRole{
			ID:        uuid.New().String(),
			UserID:    e.userID,
			RoleID:    e.roleID,
			SourceID:  e.sourceID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			log.Fatalf("seed membership: %v", err)
		}
	}

	log.Printf("seed: created org %s, workspace %s, %d roles, 2 users", devOrgID, devWorkspaceID, len(roles))
}
