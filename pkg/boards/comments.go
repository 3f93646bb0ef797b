package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/rbac"
)

// AddComment posts a comment on a card. Commenting takes the same
// standing as viewing the card.
func (s *Service) AddComment(ctx context.Context, actor *auth.User, cardID uuid.UUID, text string) (*board.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", board.ErrValidation)
	}

	chain, err := s.cardChain(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanCommentOnCard(actor, chain.Card, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	cm := &board.Comment{
		CardID:   cardID,
		AuthorID: actor.ID,
		Text:     text,
	}
	if err := s.store.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// EditComment rewrites a comment's text. Only the author may edit; no
// admin role overrides authorship.
func (s *Service) EditComment(ctx context.Context, actor *auth.User, commentID uuid.UUID, text string) (*board.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", board.ErrValidation)
	}

	chain, err := s.commentChain(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanEditComment(actor, chain.Comment) {
		return nil, board.ErrForbidden
	}

	cm := chain.Comment
	cm.Text = text
	if err := s.store.UpdateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// DeleteComment removes a comment; the author or any ancestor admin may
// moderate it away
func (s *Service) DeleteComment(ctx context.Context, actor *auth.User, commentID uuid.UUID) error {
	chain, err := s.commentChain(ctx, commentID)
	if err != nil {
		return err
	}
	if !rbac.CanManageComment(actor, chain.Comment, chain.Board, chain.Workspace) {
		return board.ErrForbidden
	}
	return s.store.DeleteComment(ctx, commentID)
}
