package sso

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		IssuerURL:    "https://accounts.example.com",
		ClientID:     "tack",
		ClientSecret: "secret",
		RedirectURL:  "https://tack.example.com/api/sso/callback",
		Scopes:       []string{"openid", "profile", "email"},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing client_id", func(c *Config) { c.ClientID = "" }, "client_id is required"},
		{"missing client_secret", func(c *Config) { c.ClientSecret = "" }, "client_secret is required"},
		{"missing issuer_url", func(c *Config) { c.IssuerURL = "" }, "issuer_url is required"},
		{"missing redirect_url", func(c *Config) { c.RedirectURL = "" }, "redirect_url is required"},
		{"missing scopes", func(c *Config) { c.Scopes = nil }, "scopes are required"},
		{"missing openid scope", func(c *Config) { c.Scopes = []string{"profile", "email"} }, "'openid' scope is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func setupProvider(t *testing.T) (*Provider, *storage.SQLStore) {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(ctx, db))
	store := storage.NewSQLStore(db)

	// discovery is not exercised here, so the provider is assembled by hand
	return &Provider{
		store:  store,
		signer: auth.NewSessionSigner("access", "refresh", time.Hour, 24*time.Hour),
		logger: observability.NewLogger(observability.ErrorLevel, io.Discard),
	}, store
}

func TestProvision_CreatesAccountOnFirstLogin(t *testing.T) {
	p, store := setupProvider(t)
	ctx := context.Background()

	u, err := p.provision(ctx, claims{Subject: "idp-1", Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, auth.RoleUser, u.Role)

	stored, err := store.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	// no bcrypt digest can ever match the provisioned credential
	hasher := auth.NewBcryptHasher(4)
	assert.False(t, hasher.Verify("", stored.PasswordHash))
	assert.False(t, hasher.Verify(stored.PasswordHash, stored.PasswordHash))
}

func TestProvision_ReusesExistingAccount(t *testing.T) {
	p, store := setupProvider(t)
	ctx := context.Background()

	existing := &auth.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: auth.RoleUser}
	require.NoError(t, store.CreateUser(ctx, existing))

	u, err := p.provision(ctx, claims{Subject: "idp-1", Email: "ada@example.com", Name: "A. Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID, "existing account is matched by email, not renamed")
	assert.Equal(t, "Ada", u.Name)
}

func TestProvision_FallsBackToEmailLocalPart(t *testing.T) {
	p, _ := setupProvider(t)

	u, err := p.provision(context.Background(), claims{Subject: "idp-2", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "grace", u.Name)
}

func TestProvision_RequiresEmail(t *testing.T) {
	p, _ := setupProvider(t)

	_, err := p.provision(context.Background(), claims{Subject: "idp-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email")
}

func TestNewState(t *testing.T) {
	a := NewState()
	b := NewState()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
