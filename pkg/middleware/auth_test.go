package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/storage"
)

func setupAuth(t *testing.T) (*AuthMiddleware, *auth.SessionSigner, *auth.User) {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(ctx, db))
	store := storage.NewSQLStore(db)

	u := &auth.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: auth.RoleUser}
	require.NoError(t, store.CreateUser(ctx, u))

	signer := auth.NewSessionSigner("access", "refresh", time.Hour, 24*time.Hour)
	return NewAuthMiddleware(signer, store), signer, u
}

func protectedHandler(t *testing.T, sawActor **auth.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawActor = Actor(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mw, signer, u := setupAuth(t)

	pair, err := signer.IssuePair(u)
	require.NoError(t, err)

	var actor *auth.User
	h := mw.Handler(protectedHandler(t, &actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	assert.Equal(t, u.ID, actor.ID)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	mw, signer, u := setupAuth(t)

	var actor *auth.User
	h := mw.Handler(protectedHandler(t, &actor))

	send := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(""))
	assert.Equal(t, http.StatusUnauthorized, send("garbage"))
	assert.Equal(t, http.StatusUnauthorized, send("Bearer not.a.jwt"))

	// refresh tokens are not accepted on the access slot
	pair, err := signer.IssuePair(u)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, send("Bearer "+pair.RefreshToken))
}

func TestAuthMiddleware_CachesVerifiedTokens(t *testing.T) {
	mw, signer, u := setupAuth(t)

	pair, err := signer.IssuePair(u)
	require.NoError(t, err)

	var actor *auth.User
	h := mw.Handler(protectedHandler(t, &actor))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	_, cached := mw.cache.Get(pair.AccessToken)
	assert.True(t, cached)
}
