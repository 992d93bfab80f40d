package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"scopehub/internal/security"
	userdomain "scopehub/internal/user/domain"
)

type staticUserSource struct {
	user *userdomain.User
	err  error
}

func (s *staticUserSource) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	return s.user, s.err
}

func newVerifier(t *testing.T, password string) (*CredentialVerifier, *staticUserSource) {
	t.Helper()
	hasher := security.NewHasher(bcrypt.MinCost)
	src := &staticUserSource{}
	if password != "" {
		hash, err := hasher.Hash(password)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		src.user = &userdomain.User{ID: "u1", PasswordHash: hash}
	}
	return NewCredentialVerifier(src, hasher), src
}

func TestVerify_BlankArguments(t *testing.T) {
	v, _ := newVerifier(t, "secret")

	if _, err := v.Verify(context.Background(), "", "secret"); !errors.Is(err, ErrBlankUserID) {
		t.Errorf("blank user id: err = %v, want ErrBlankUserID", err)
	}
	if _, err := v.Verify(context.Background(), "u1", ""); !errors.Is(err, ErrBlankPassword) {
		t.Errorf("blank password: err = %v, want ErrBlankPassword", err)
	}
}

func TestVerify_Match(t *testing.T) {
	v, _ := newVerifier(t, "correct horse")

	ok, err := v.Verify(context.Background(), "u1", "correct horse")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("ok = false, want true")
	}
}

func TestVerify_Mismatch(t *testing.T) {
	v, _ := newVerifier(t, "correct horse")

	ok, err := v.Verify(context.Background(), "u1", "battery staple")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("ok = true, want false")
	}
}

func TestVerify_UnknownUser(t *testing.T) {
	v, _ := newVerifier(t, "")

	ok, err := v.Verify(context.Background(), "nobody", "secret")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("ok = true, want false for unknown user")
	}
}

func TestVerify_EmptyStoredHash(t *testing.T) {
	v, src := newVerifier(t, "")
	src.user = &userdomain.User{ID: "u1"}

	ok, err := v.Verify(context.Background(), "u1", "secret")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("ok = true, want false for empty stored hash")
	}
}

func TestVerify_SourceErrorPropagates(t *testing.T) {
	hasher := security.NewHasher(bcrypt.MinCost)
	src := &staticUserSource{err: errors.New("db down")}
	v := NewCredentialVerifier(src, hasher)

	_, err := v.Verify(context.Background(), "u1", "secret")
	if err == nil || err.Error() != "db down" {
		t.Fatalf("err = %v, want db down", err)
	}
}
