package account

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

type fixture struct {
	svc    *Service
	store  *storage.SQLStore
	mailer *mail.Recorder
	signer *auth.SessionSigner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(ctx, db))

	store := storage.NewSQLStore(db)
	mailer := mail.NewRecorder()
	signer := auth.NewSessionSigner("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	return &fixture{
		svc:    NewService(store, mailer, signer, auth.NewBcryptHasher(4), "https://tack.test", logger, nil),
		store:  store,
		mailer: mailer,
		signer: signer,
	}
}

func TestSignup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, res.User.Role)
	assert.NotEqual(t, "correct horse battery", res.User.PasswordHash)
	assert.Equal(t, "Ada's First Workspace", res.Workspace.Title)
	assert.Equal(t, res.User.ID, res.Workspace.AdminID)
	assert.True(t, res.Workspace.Members.Contains(res.User.ID))
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	welcome := f.mailer.SentTo("ada@example.com")
	require.Len(t, welcome, 1)
	assert.Contains(t, welcome[0].Subject, "Welcome")

	workspaces, err := f.store.ListWorkspacesForUser(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Len(t, workspaces, 1)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "", "ada@example.com", "longenough")
	assert.ErrorIs(t, err, board.ErrValidation)

	_, err = f.svc.Signup(ctx, "Ada", "not-an-email", "longenough")
	assert.ErrorIs(t, err, board.ErrValidation)

	_, err = f.svc.Signup(ctx, "Ada", "ada@example.com", "short")
	assert.ErrorIs(t, err, board.ErrValidation)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, "Imposter", "ada@example.com", "longenough")
	assert.ErrorIs(t, err, board.ErrAlreadyExists)
}

func TestSignup_RollsBackWhenMailFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mailer.FailAll(errors.New("smtp down"))

	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.Error(t, err)

	// neither the user nor the default workspace survives the failure
	u, err := f.store.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	u, tokens, err := f.svc.Login(ctx, "ada@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = f.svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(ctx, "nobody@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	fresh, err := f.svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// the access token is not accepted in the refresh slot
	_, err = f.svc.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	u, err := f.svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	claims, err := f.signer.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	_, err = f.svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	msgs := f.mailer.SentTo("ada@example.com")
	require.Len(t, msgs, 2, "welcome plus reset")

	reset := msgs[1]
	idx := strings.Index(reset.Text, "token=")
	require.GreaterOrEqual(t, idx, 0)
	token := reset.Text[idx+len("token="):]
	if nl := strings.IndexAny(token, "\n \t"); nl >= 0 {
		token = token[:nl]
	}

	require.NoError(t, f.svc.ResetPassword(ctx, token, "a brand new secret"))

	_, _, err = f.svc.Login(ctx, "ada@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "ada@example.com", "a brand new secret")
	require.NoError(t, err)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, board.ErrNotFound)
}

func TestResetPassword_RejectsSessionToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "longenough")
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, res.Tokens.AccessToken, "a brand new secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
