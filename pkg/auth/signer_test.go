package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{
		ID:    uuid.New(),
		Name:  "alice",
		Email: "alice@example.com",
		Role:  RoleUser,
	}
}

func TestSessionSigner_IssuePairRoundTrip(t *testing.T) {
	signer := NewSessionSigner("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	u := testUser()

	pair, err := signer.IssuePair(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := signer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Name, claims.Name)
	assert.Equal(t, RoleUser, claims.Role)

	refreshClaims, err := signer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, refreshClaims.UserID)
}

func TestSessionSigner_SecretsAreIndependent(t *testing.T) {
	signer := NewSessionSigner("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	pair, err := signer.IssuePair(testUser())
	require.NoError(t, err)

	_, err = signer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionSigner_ExpiredAccessToken(t *testing.T) {
	signer := NewSessionSigner("secret", "refresh", -time.Minute, 24*time.Hour)
	pair, err := signer.IssuePair(testUser())
	require.NoError(t, err)

	_, err = signer.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionSigner_ResetTokenPurpose(t *testing.T) {
	signer := NewSessionSigner("secret", "refresh", time.Hour, 24*time.Hour)
	u := testUser()

	reset, err := signer.IssueReset(u)
	require.NoError(t, err)

	claims, err := signer.VerifyReset(reset)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// A reset token must not be usable as an access token, and vice versa.
	_, err = signer.VerifyAccess(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := signer.IssuePair(u)
	require.NoError(t, err)
	_, err = signer.VerifyReset(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInviteSigner_RoundTrip(t *testing.T) {
	signer := NewInviteSigner("invite-secret", 15*time.Minute)
	resourceID := uuid.New()

	token, err := signer.Sign("board", resourceID, "x@y.com")
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "board", claims.ResourceKind)
	assert.Equal(t, resourceID, claims.ResourceID)
	assert.Equal(t, "x@y.com", claims.Email)
}

func TestInviteSigner_Expired(t *testing.T) {
	signer := NewInviteSigner("invite-secret", -time.Second)
	token, err := signer.Sign("workspace", uuid.New(), "x@y.com")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInviteSigner_WrongSecret(t *testing.T) {
	token, err := NewInviteSigner("right", time.Minute).Sign("board", uuid.New(), "x@y.com")
	require.NoError(t, err)

	_, err = NewInviteSigner("wrong", time.Minute).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInviteSigner_SessionTokenRejected(t *testing.T) {
	// Session and invitation purposes use independent secrets; a session
	// token can never be replayed as an invitation.
	session := NewSessionSigner("shared", "refresh", time.Hour, time.Hour)
	pair, err := session.IssuePair(testUser())
	require.NoError(t, err)

	_, err = NewInviteSigner("invite", time.Minute).Verify(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4) // min cost keeps the test fast

	digest, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, hasher.Verify("s3cret", digest))
	assert.False(t, hasher.Verify("wrong", digest))
	assert.False(t, hasher.Verify("s3cret", "not-a-digest"))
}

func TestUser_IsSystemAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsSystemAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsSystemAdmin())
	assert.True(t, (&User{Role: RoleSystemAdmin}).IsSystemAdmin())
}
