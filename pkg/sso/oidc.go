package sso

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

// Config holds the OIDC client settings
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Validate checks the config for completeness
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}
	if c.IssuerURL == "" {
		return fmt.Errorf("issuer_url is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("redirect_url is required")
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("scopes are required")
	}
	hasOpenID := false
	for _, s := range c.Scopes {
		if s == oidc.ScopeOpenID {
			hasOpenID = true
		}
	}
	if !hasOpenID {
		return fmt.Errorf("'openid' scope is required")
	}
	return nil
}

// claims are the ID-token fields the provisioner consumes
type claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Provider performs the OIDC authorization-code flow and maps the
// verified identity onto a local account
type Provider struct {
	cfg          Config
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	store        storage.Store
	signer       *auth.SessionSigner
	logger       *observability.Logger
}

// NewProvider discovers the issuer and builds a Provider
func NewProvider(ctx context.Context, cfg Config, store storage.Store, signer *auth.SessionSigner, logger *observability.Logger) (*Provider, error) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OIDC config: %w", err)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &Provider{
		cfg:      cfg,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
		},
		store:  store,
		signer: signer,
		logger: logger,
	}, nil
}

// AuthCodeURL builds the authorization redirect for the given state
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the ID token
// and signs the matching local account in, provisioning one on first
// contact
func (p *Provider) HandleCallback(ctx context.Context, code string) (*auth.User, *auth.TokenPair, error) {
	if code == "" {
		return nil, nil, fmt.Errorf("missing authorization code")
	}

	oauth2Token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, nil, fmt.Errorf("missing id_token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var cl claims
	if err := idToken.Claims(&cl); err != nil {
		return nil, nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	u, err := p.provision(ctx, cl)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := p.signer.IssuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// provision finds the account for the verified identity, creating one on
// first login. Provisioned accounts carry an unusable credential: password
// login stays closed until the user runs the reset flow.
func (p *Provider) provision(ctx context.Context, cl claims) (*auth.User, error) {
	if cl.Email == "" {
		return nil, fmt.Errorf("identity provider returned no email")
	}

	u, err := p.store.GetUserByEmail(ctx, cl.Email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	name := cl.Name
	if name == "" {
		name = strings.SplitN(cl.Email, "@", 2)[0]
	}

	u = &auth.User{
		Name:         name,
		Email:        cl.Email,
		PasswordHash: unusableCredential(),
		Role:         auth.RoleUser,
	}
	if err := p.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	p.logger.WithFields(map[string]interface{}{
		"user_id": u.ID.String(),
		"subject": cl.Subject,
	}).Info("provisioned account from identity provider")
	return u, nil
}

// unusableCredential returns a marker that no bcrypt digest ever matches
func unusableCredential() string {
	return "!oidc:" + NewState()
}

// NewState returns a random URL-safe state value for CSRF protection
func NewState() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
