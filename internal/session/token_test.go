package session

import (
	"testing"
	"time"
)

func TestContextTokenProvider_IssueAndValidate(t *testing.T) {
	p := NewContextTokenProvider([]byte("secret"), "scopehub-test", time.Minute)

	token, expiresAt, err := p.Issue("user-1", "org-1", "ws-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiresAt should be in the future")
	}

	claims, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("sub = %q, want user-1", claims.Subject)
	}
	if claims.OrgID != "org-1" || claims.WorkspaceID != "ws-1" {
		t.Errorf("scope claims = (%q, %q)", claims.OrgID, claims.WorkspaceID)
	}
}

func TestContextTokenProvider_RejectsWrongSecret(t *testing.T) {
	p := NewContextTokenProvider([]byte("secret-a"), "scopehub-test", time.Minute)
	other := NewContextTokenProvider([]byte("secret-b"), "scopehub-test", time.Minute)

	token, _, err := p.Issue("user-1", "org-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Validate(token); err == nil {
		t.Fatal("Validate with wrong secret should fail")
	}
}

func TestContextTokenProvider_RejectsExpired(t *testing.T) {
	p := NewContextTokenProvider([]byte("secret"), "scopehub-test", -time.Minute)

	token, _, err := p.Issue("user-1", "org-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Validate(token); err == nil {
		t.Fatal("Validate of expired token should fail")
	}
}

func TestContextTokenProvider_RejectsGarbage(t *testing.T) {
	p := NewContextTokenProvider([]byte("secret"), "scopehub-test", time.Minute)
	if _, err := p.Validate("not-a-token"); err == nil {
		t.Fatal("Validate of garbage should fail")
	}
}
