package invite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/rbac"
	"github.com/tackboard/tack/pkg/storage"
)

// DeliveryReport is the per-recipient outcome of an invitation batch
type DeliveryReport struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// AcceptResult describes the membership granted by accepting an invite
type AcceptResult struct {
	Kind          board.Kind       `json:"kind"`
	Workspace     *board.Workspace `json:"workspace,omitempty"`
	Board         *board.Board     `json:"board,omitempty"`
	User          *auth.User       `json:"user"`
	AlreadyMember bool             `json:"already_member"`
}

// Service issues and resolves invitations
type Service struct {
	store   storage.Store
	mailer  mail.Mailer
	signer  *auth.InviteSigner
	hasher  auth.Hasher
	baseURL string
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates the invitation service. metrics may be nil.
func NewService(store storage.Store, mailer mail.Mailer, signer *auth.InviteSigner, hasher auth.Hasher, baseURL string, logger *observability.Logger, metrics *observability.Metrics) *Service {
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

// Issue signs one invitation token per address and emails it. The actor
// must hold manage rights on the target resource. One failed delivery
// never aborts the batch; each recipient gets its own report line.
func (s *Service) Issue(ctx context.Context, actor *auth.User, kind board.Kind, resourceID uuid.UUID, emails []string) ([]DeliveryReport, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: at least one email is required", board.ErrValidation)
	}

	chain, err := s.resolveTarget(ctx, kind, resourceID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManage(actor, kind, chain) {
		return nil, board.ErrForbidden
	}

	reports := make([]DeliveryReport, 0, len(emails))
	for _, email := range emails {
		report := DeliveryReport{Email: email, Status: string(storage.DeliverySent)}

		if err := s.sendInvitation(ctx, actor, kind, resourceID, email); err != nil {
			report.Status = string(storage.DeliveryFailed)
			report.Error = err.Error()
			s.logger.WithError(err).WithField("email", email).Warn("invitation delivery failed")
		}
		reports = append(reports, report)

		s.recordDelivery(ctx, kind, resourceID, report)
	}

	if s.metrics != nil {
		s.metrics.InvitesIssuedTotal.WithLabelValues(string(kind)).Add(float64(len(emails)))
	}
	return reports, nil
}

func (s *Service) sendInvitation(ctx context.Context, actor *auth.User, kind board.Kind, resourceID uuid.UUID, email string) error {
	token, err := s.signer.Sign(string(kind), resourceID, email)
	if err != nil {
		return fmt.Errorf("failed to sign invite token: %w", err)
	}

	acceptURL := fmt.Sprintf("%s/api/invites/accept/%s", s.baseURL, token)
	rejectURL := fmt.Sprintf("%s/api/invites/reject/%s", s.baseURL, token)
	msg := mail.InvitationMessage(email, actor.Name, string(kind), acceptURL, rejectURL)
	return s.mailer.Send(ctx, msg)
}

func (s *Service) recordDelivery(ctx context.Context, kind board.Kind, resourceID uuid.UUID, report DeliveryReport) {
	rec := &storage.DeliveryRecord{
		ResourceKind: kind,
		ResourceID:   resourceID,
		Email:        report.Email,
		Status:       storage.DeliveryStatus(report.Status),
		Reason:       report.Error,
	}
	if err := s.store.RecordDelivery(ctx, rec); err != nil {
		s.logger.WithError(err).Warn("failed to record invite delivery")
	}
	if s.metrics != nil {
		s.metrics.MailDeliveriesTotal.WithLabelValues(report.Status).Inc()
	}
}

// Accept verifies the token and grants membership. Unknown addresses
// become accounts on the spot, which requires name and password; known
// addresses join as they are. Accepting the same token twice reports
// AlreadyMember instead of failing.
func (s *Service) Accept(ctx context.Context, token, name, password string) (*AcceptResult, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	kind := board.Kind(claims.ResourceKind)
	chain, err := s.resolveTarget(ctx, kind, claims.ResourceID)
	if err != nil {
		return nil, err
	}

	user, err := s.findOrCreateUser(ctx, claims.Email, name, password)
	if err != nil {
		return nil, err
	}

	result := &AcceptResult{Kind: kind, User: user}
	switch kind {
	case board.KindWorkspace:
		result.Workspace = chain.Workspace
		result.AlreadyMember, err = s.grant(ctx, chain.Workspace.AdminID, user.ID, func() (bool, error) {
			return s.store.AddWorkspaceMember(ctx, chain.Workspace.ID, user.ID)
		})
	case board.KindBoard:
		result.Board = chain.Board
		result.AlreadyMember, err = s.grant(ctx, chain.Board.AdminID, user.ID, func() (bool, error) {
			return s.store.AddBoardMember(ctx, chain.Board.ID, user.ID)
		})
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvitesResolvedTotal.WithLabelValues(string(kind), "accepted").Inc()
	}
	s.logger.WithFields(map[string]interface{}{
		"kind":     string(kind),
		"resource": claims.ResourceID.String(),
		"user":     user.ID.String(),
	}).Info("invitation accepted")
	return result, nil
}

// grant adds the user as a member. The resource admin needs no membership
// row; for them accepting is a pure no-op.
func (s *Service) grant(ctx context.Context, adminID, userID uuid.UUID, add func() (bool, error)) (alreadyMember bool, err error) {
	if adminID == userID {
		return true, nil
	}
	changed, err := add()
	if err != nil {
		return false, err
	}
	return !changed, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, email, name, password string) (*auth.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required for new accounts", board.ErrValidation)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user = &auth.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Reject verifies the token and discards it. Because invitations are
// stateless there is nothing to revoke; a rejected token simply ages out.
func (s *Service) Reject(ctx context.Context, token string) (*auth.InviteClaims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvitesResolvedTotal.WithLabelValues(claims.ResourceKind, "rejected").Inc()
	}
	s.logger.WithFields(map[string]interface{}{
		"kind":     claims.ResourceKind,
		"resource": claims.ResourceID.String(),
	}).Info("invitation rejected")
	return claims, nil
}

// AddMemberDirect grants membership without the email round trip. The
// actor must hold manage rights; the resource admin cannot be added to
// their own member list.
func (s *Service) AddMemberDirect(ctx context.Context, actor *auth.User, kind board.Kind, resourceID, userID uuid.UUID) error {
	chain, err := s.resolveTarget(ctx, kind, resourceID)
	if err != nil {
		return err
	}
	if !rbac.CanManage(actor, kind, chain) {
		return board.ErrForbidden
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", board.ErrNotFound, userID)
	}

	var adminID uuid.UUID
	var add func() (bool, error)
	switch kind {
	case board.KindWorkspace:
		adminID = chain.Workspace.AdminID
		add = func() (bool, error) { return s.store.AddWorkspaceMember(ctx, resourceID, userID) }
	case board.KindBoard:
		adminID = chain.Board.AdminID
		add = func() (bool, error) { return s.store.AddBoardMember(ctx, resourceID, userID) }
	}

	if adminID == userID {
		return board.ErrOwnerCannotBeMember
	}
	changed, err := add()
	if err != nil {
		return err
	}
	if !changed {
		return board.ErrAlreadyMember
	}
	return nil
}

// resolveTarget loads the invitation target and its ancestor chain.
// Only workspaces and boards can be invited to.
func (s *Service) resolveTarget(ctx context.Context, kind board.Kind, resourceID uuid.UUID) (*board.Chain, error) {
	switch kind {
	case board.KindWorkspace:
		ws, err := s.store.GetWorkspace(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			return nil, fmt.Errorf("%w: workspace %s", board.ErrNotFound, resourceID)
		}
		return &board.Chain{Workspace: ws}, nil

	case board.KindBoard:
		b, err := s.store.GetBoard(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: board %s", board.ErrNotFound, resourceID)
		}
		ws, err := s.store.GetWorkspace(ctx, b.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if ws == nil {
			return nil, fmt.Errorf("%w: workspace %s", board.ErrNotFound, b.WorkspaceID)
		}
		return &board.Chain{Workspace: ws, Board: b}, nil

	default:
		return nil, fmt.Errorf("%w: cannot invite to a %s", board.ErrValidation, kind)
	}
}
