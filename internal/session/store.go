// Package session stores the active-scope snapshot of a user in Redis so that
// requests following a scope switch see the new context immediately.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	userdomain "scopehub/internal/user/domain"
)

const keyPrefix = "session:user:"

// ActiveUser is the snapshot published after a scope switch.
type ActiveUser struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	LastOrganizationID string    `json:"last_organization_id"`
	LastWorkspaceID    string    `json:"last_workspace_id"`
	ContextToken       string    `json:"context_token,omitempty"`
	SwitchedAt         time.Time `json:"switched_at"`
}

// Store is the Redis-backed session collaborator. It implements the
// ActiveUserPublisher consumed by the scope switcher.
type Store struct {
	rdb    *redis.Client
	tokens *ContextTokenProvider
	ttl    time.Duration
}

// NewStore returns a Store writing snapshots to rdb with the given TTL.
// tokens may be nil; then no context token is minted on publish.
func NewStore(rdb *redis.Client, tokens *ContextTokenProvider, ttl time.Duration) *Store {
	return &Store{rdb: rdb, tokens: tokens, ttl: ttl}
}

// PublishActiveUser writes the user's active-scope snapshot, minting a fresh
// context token when a provider is configured. Called once per successful
// scope switch.
func (s *Store) PublishActiveUser(ctx context.Context, u *userdomain.User) error {
	snap := ActiveUser{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		LastOrganizationID: u.LastOrganizationID,
		LastWorkspaceID:    u.LastWorkspaceID,
		SwitchedAt:         time.Now().UTC(),
	}
	if s.tokens != nil {
		token, _, err := s.tokens.Issue(u.ID, u.LastOrganizationID, u.LastWorkspaceID)
		if err != nil {
			return err
		}
		snap.ContextToken = token
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+u.ID, payload, s.ttl).Err()
}

// ActiveUser returns the stored snapshot for userID, or nil if none exists.
func (s *Store) ActiveUser(ctx context.Context, userID string) (*ActiveUser, error) {
	payload, err := s.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap ActiveUser
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clear removes the stored snapshot for userID. Clearing a missing key is not an error.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, keyPrefix+userID).Err()
}
