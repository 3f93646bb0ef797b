package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature, expiry or
// purpose validation. Callers are not told which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

const resetPurpose = "password_reset"

// SessionClaims are the claims embedded in access, refresh and
// password-reset tokens
type SessionClaims struct {
	UserID  uuid.UUID `json:"uid"`
	Name    string    `json:"name"`
	Role    Role      `json:"role"`
	Purpose string    `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// SessionSigner mints and verifies the session token pair plus the
// short-lived password-reset token. Access and refresh tokens are signed
// with independent secrets.
type SessionSigner struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// NewSessionSigner creates a session signer
func NewSessionSigner(secret, refreshSecret string, accessTTL, refreshTTL time.Duration) *SessionSigner {
	return &SessionSigner{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTTL:      15 * time.Minute,
	}
}

// IssuePair mints an access/refresh token pair for the user
func (s *SessionSigner) IssuePair(u *User) (*TokenPair, error) {
	access, err := s.sign(u, s.secret, s.accessTTL, "")
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := s.sign(u, s.refreshSecret, s.refreshTTL, "")
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueReset mints a password-reset token valid for 15 minutes
func (s *SessionSigner) IssueReset(u *User) (string, error) {
	return s.sign(u, s.secret, s.resetTTL, resetPurpose)
}

// VerifyAccess validates an access token and returns its claims
func (s *SessionSigner) VerifyAccess(token string) (*SessionClaims, error) {
	claims, err := verify(token, s.secret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its claims
func (s *SessionSigner) VerifyRefresh(token string) (*SessionClaims, error) {
	return verify(token, s.refreshSecret)
}

// VerifyReset validates a password-reset token. An access token does not
// pass, the reset purpose claim is required.
func (s *SessionSigner) VerifyReset(token string) (*SessionClaims, error) {
	claims, err := verify(token, s.secret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != resetPurpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *SessionSigner) sign(u *User, secret []byte, ttl time.Duration, purpose string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:  u.ID,
		Name:    u.Name,
		Role:    u.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(token string, secret []byte) (*SessionClaims, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// InviteClaims bind one invitation token to exactly one (resource, email)
// pair. The token is the sole carrier of invitation state.
type InviteClaims struct {
	ResourceKind string    `json:"kind"`
	ResourceID   uuid.UUID `json:"rid"`
	Email        string    `json:"email"`
	jwt.RegisteredClaims
}

// InviteSigner mints and verifies invitation tokens. Invitations use their
// own secret and a fixed short validity window.
type InviteSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewInviteSigner creates an invitation signer. A zero ttl selects the
// 15-minute default.
func NewInviteSigner(secret string, ttl time.Duration) *InviteSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &InviteSigner{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity window applied to signed invitations
func (s *InviteSigner) TTL() time.Duration {
	return s.ttl
}

// Sign mints an invitation token for the (resource, email) pair
func (s *InviteSigner) Sign(resourceKind string, resourceID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := InviteClaims{
		ResourceKind: resourceKind,
		ResourceID:   resourceID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates an invitation token and returns its claims
func (s *InviteSigner) Verify(token string) (*InviteClaims, error) {
	var claims InviteClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
