package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	tackmail "github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

// ErrInvalidCredentials is returned when the email or password does not
// match. Login never says which one.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

// Service handles account operations
type Service struct {
	store   storage.Store
	mailer  tackmail.Mailer
	signer  *auth.SessionSigner
	hasher  auth.Hasher
	baseURL string
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates an account service. metrics may be nil.
func NewService(store storage.Store, mailer tackmail.Mailer, signer *auth.SessionSigner, hasher auth.Hasher, baseURL string, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		mailer:  mailer,
		signer:  signer,
		hasher:  hasher,
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// SignupResult is everything minted during a successful signup
type SignupResult struct {
	User      *auth.User       `json:"user"`
	Workspace *board.Workspace `json:"workspace"`
	Tokens    *auth.TokenPair  `json:"tokens"`
}

// Signup creates a user together with their default workspace and sends
// the welcome email. The three steps run inside one transaction: if the
// workspace write or the welcome mail fails, the user row is rolled back
// with it.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*SignupResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", board.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", board.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", board.ErrValidation, minPasswordLength)
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", board.ErrAlreadyExists)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &auth.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}
	ws := &board.Workspace{
		Title:      fmt.Sprintf("%s's First Workspace", name),
		Type:       board.WorkspaceTypeOther,
		Visibility: board.VisibilityPrivate,
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		ws.AdminID = u.ID
		ws.Members = board.MemberSet{u.ID}
		if err := tx.CreateWorkspace(ctx, ws); err != nil {
			return err
		}
		if err := s.mailer.Send(ctx, tackmail.WelcomeMessage(u.Email, u.Name)); err != nil {
			return fmt.Errorf("failed to send welcome mail: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.signer.IssuePair(u)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SignupsTotal.Inc()
	}
	s.logger.WithField("user_id", u.ID.String()).Info("user signed up")

	return &SignupResult{User: u, Workspace: ws, Tokens: tokens}, nil
}

// Login verifies credentials and mints a fresh token pair
func (s *Service) Login(ctx context.Context, email, password string) (*auth.User, *auth.TokenPair, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.signer.IssuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrInvalidToken
	}
	return s.signer.IssuePair(u)
}

// Me loads the account behind an authenticated session
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*auth.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", board.ErrNotFound, userID)
	}
	return u, nil
}

// ForgotPassword mails a reset link to the account, if one exists
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: no account for %s", board.ErrNotFound, email)
	}

	token, err := s.signer.IssueReset(u)
	if err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(token))
	if err := s.mailer.Send(ctx, tackmail.PasswordResetMessage(u.Email, u.Name, resetURL)); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	s.logger.WithField("user_id", u.ID.String()).Info("password reset requested")
	return nil
}

// ResetPassword applies a new password against a valid reset token
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.signer.VerifyReset(token)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", board.ErrValidation, minPasswordLength)
	}

	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return auth.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.store.UpdateUser(ctx, u)
}
