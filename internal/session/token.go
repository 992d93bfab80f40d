package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a context token is malformed, expired, or
// signed with a different secret.
var ErrInvalidToken = errors.New("invalid context token")

// ContextClaims are the claims of a scope context token: the subject user and
// their active organization/workspace at issue time.
type ContextClaims struct {
	jwt.RegisteredClaims
	OrgID       string `json:"org"`
	WorkspaceID string `json:"workspace"`
}

// ContextTokenProvider issues and validates HS256 scope context tokens. The
// enclosing transport hands the token to clients after a scope switch so
// subsequent requests carry the active scope.
type ContextTokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewContextTokenProvider returns a provider signing with secret. issuer is
// set as the iss claim; ttl bounds token lifetime.
func NewContextTokenProvider(secret []byte, issuer string, ttl time.Duration) *ContextTokenProvider {
	return &ContextTokenProvider{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue returns a signed context token for the user's active scope and its expiry.
func (p *ContextTokenProvider) Issue(userID, orgID, workspaceID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := ContextClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		OrgID:       orgID,
		WorkspaceID: workspaceID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses and verifies a context token, returning its claims.
func (p *ContextTokenProvider) Validate(token string) (*ContextClaims, error) {
	claims := &ContextClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
