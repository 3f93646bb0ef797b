package boards

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/rbac"
)

// CreateCardInput carries the fields a caller may set at creation.
// DueInDays, when positive, sets the due date that many days out.
type CreateCardInput struct {
	Title       string
	Description string
	Label       string
	DueInDays   int
}

// CreateCard creates a card in a list. Creation is authorized like
// viewing a card in that list: anyone with standing on the workspace,
// board or list's board may add cards. The actor becomes the card's owner.
func (s *Service) CreateCard(ctx context.Context, actor *auth.User, listID uuid.UUID, in CreateCardInput) (*board.Card, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}

	chain, err := s.listChain(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCard(actor, nil, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	c := &board.Card{
		ListID:      listID,
		Title:       in.Title,
		Description: in.Description,
		Label:       in.Label,
		AdminID:     &actor.ID,
	}
	if in.DueInDays > 0 {
		due := time.Now().UTC().AddDate(0, 0, in.DueInDays).Truncate(24 * time.Hour)
		c.DueDate = &due
	}

	if err := s.store.CreateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Card fetches one card the actor can view
func (s *Service) Card(ctx context.Context, actor *auth.User, id uuid.UUID) (*board.Card, error) {
	chain, err := s.cardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}
	return chain.Card, nil
}

// AssignCardMember puts a board member on the card. Users without board
// standing cannot be assigned; an assignment that already exists reports
// ErrAlreadyMember.
func (s *Service) AssignCardMember(ctx context.Context, actor *auth.User, cardID, memberID uuid.UUID) (*board.Card, error) {
	chain, err := s.cardChain(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	b := chain.Board
	if !b.Members.Contains(memberID) && b.AdminID != memberID {
		return nil, fmt.Errorf("%w: user is not a member of this board", board.ErrValidation)
	}

	changed, err := s.store.AddCardMember(ctx, cardID, memberID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, board.ErrAlreadyMember
	}

	chain.Card.Members.Add(memberID)
	return chain.Card, nil
}

// MoveCard reparents a card onto another list of the same board
func (s *Service) MoveCard(ctx context.Context, actor *auth.User, cardID, targetListID uuid.UUID) (*board.Card, error) {
	chain, err := s.cardChain(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanViewCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	target, err := s.store.GetList(ctx, targetListID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: list %s", board.ErrNotFound, targetListID)
	}
	if target.BoardID != chain.Board.ID {
		return nil, fmt.Errorf("%w: target list belongs to a different board", board.ErrValidation)
	}

	c := chain.Card
	c.ListID = targetListID
	if err := s.store.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCardInput holds partial updates; nil fields stay unchanged
type UpdateCardInput struct {
	Title       *string
	Description *string
	Label       *string
	DueDate     *time.Time
}

// UpdateCard applies in to the card. Managing a card takes the card's own
// admin or an ancestor admin; card membership is not enough.
func (s *Service) UpdateCard(ctx context.Context, actor *auth.User, id uuid.UUID, in UpdateCardInput) (*board.Card, error) {
	chain, err := s.cardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	c := chain.Card
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", board.ErrValidation)
		}
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Label != nil {
		c.Label = *in.Label
	}
	if in.DueDate != nil {
		c.DueDate = in.DueDate
	}

	if err := s.store.UpdateCard(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCard removes a card, requiring manage rights on it
func (s *Service) DeleteCard(ctx context.Context, actor *auth.User, id uuid.UUID) error {
	chain, err := s.cardChain(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanManageCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return board.ErrForbidden
	}
	return s.store.DeleteCard(ctx, id)
}

// UploadAttachment stores a file in the blob store and records it on the
// card. Board access is the bar, same as viewing.
func (s *Service) UploadAttachment(ctx context.Context, actor *auth.User, cardID uuid.UUID, filename string, content io.Reader, contentType string) (*board.Attachment, error) {
	chain, err := s.cardChain(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessBoard(actor, chain.Board) {
		return nil, board.ErrForbidden
	}

	obj, err := s.uploader.Upload(ctx, "attachments/"+cardID.String(), filename, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	att := board.Attachment{
		URL:        obj.URL,
		ExternalID: obj.ExternalID,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.store.AddAttachment(ctx, cardID, att); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"card_id":     cardID.String(),
		"external_id": obj.ExternalID,
	}).Info("attachment uploaded")
	return &att, nil
}
