package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/rbac"
)

// CreateBoardInput carries the fields a caller may set at creation
type CreateBoardInput struct {
	WorkspaceID uuid.UUID
	Title       string
	Description string
	Visibility  board.Visibility
}

// CreateBoard creates a board inside a workspace the actor can access.
// The actor becomes the board's admin.
func (s *Service) CreateBoard(ctx context.Context, actor *auth.User, in CreateBoardInput) (*board.Board, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}
	if in.Visibility == "" {
		in.Visibility = board.VisibilityPrivate
	}
	if !validBoardVisibility(in.Visibility) {
		return nil, fmt.Errorf("%w: invalid board visibility %q", board.ErrValidation, in.Visibility)
	}

	chain, err := s.workspaceChain(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessWorkspace(actor, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	b := &board.Board{
		WorkspaceID: in.WorkspaceID,
		Title:       in.Title,
		Description: in.Description,
		Visibility:  in.Visibility,
		AdminID:     actor.ID,
		Members:     board.MemberSet{actor.ID},
	}
	if err := s.store.CreateBoard(ctx, b); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"board_id":     b.ID.String(),
		"workspace_id": in.WorkspaceID.String(),
	}).Info("board created")
	return b, nil
}

// Boards lists every board the actor can access. Board access is decided
// on the board's own standing, so a workspace admin does not see boards
// they hold no board-level role on.
func (s *Service) Boards(ctx context.Context, actor *auth.User) ([]board.Board, error) {
	if actor == nil {
		return nil, board.ErrForbidden
	}

	all, err := s.store.ListBoards(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]board.Board, 0, len(all))
	for _, b := range all {
		if rbac.CanAccessBoard(actor, &b) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

// Board fetches one board the actor can access
func (s *Service) Board(ctx context.Context, actor *auth.User, id uuid.UUID) (*board.Board, error) {
	chain, err := s.boardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessBoard(actor, chain.Board) {
		return nil, board.ErrForbidden
	}
	return chain.Board, nil
}

// UpdateBoardInput holds partial updates; nil fields stay unchanged
type UpdateBoardInput struct {
	Title       *string
	Description *string
}

// UpdateBoard applies in to the board, requiring manage rights
func (s *Service) UpdateBoard(ctx context.Context, actor *auth.User, id uuid.UUID, in UpdateBoardInput) (*board.Board, error) {
	chain, err := s.boardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	b := chain.Board
	if !rbac.CanManageBoard(actor, b, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", board.ErrValidation)
		}
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = *in.Description
	}

	if err := s.store.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBoard removes the board and everything in it
func (s *Service) DeleteBoard(ctx context.Context, actor *auth.User, id uuid.UUID) error {
	chain, err := s.boardChain(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return board.ErrForbidden
	}

	if err := s.store.DeleteBoard(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("board_id", id.String()).Info("board deleted")
	return nil
}

// SetBoardVisibility switches between Private, Public and Global. Asking
// for the current value reports ErrUnchanged instead of writing.
func (s *Service) SetBoardVisibility(ctx context.Context, actor *auth.User, id uuid.UUID, v board.Visibility) (*board.Board, error) {
	if !validBoardVisibility(v) {
		return nil, fmt.Errorf("%w: invalid board visibility %q", board.ErrValidation, v)
	}

	chain, err := s.boardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	b := chain.Board
	if !rbac.CanManageBoard(actor, b, chain.Workspace) {
		return nil, board.ErrForbidden
	}
	if b.Visibility == v {
		return nil, fmt.Errorf("%w: visibility is already %s", board.ErrUnchanged, v)
	}

	b.Visibility = v
	if err := s.store.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ArchiveBoard flips the archived flag, requiring manage rights
func (s *Service) ArchiveBoard(ctx context.Context, actor *auth.User, id uuid.UUID, archived bool) (*board.Board, error) {
	chain, err := s.boardChain(ctx, id)
	if err != nil {
		return nil, err
	}
	b := chain.Board
	if !rbac.CanManageBoard(actor, b, chain.Workspace) {
		return nil, board.ErrForbidden
	}
	if b.Archived == archived {
		return nil, fmt.Errorf("%w: archived is already %t", board.ErrUnchanged, archived)
	}

	b.Archived = archived
	if err := s.store.UpdateBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func validBoardVisibility(v board.Visibility) bool {
	switch v {
	case board.VisibilityPrivate, board.VisibilityPublic, board.VisibilityGlobal:
		return true
	}
	return false
}
