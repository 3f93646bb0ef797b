package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/rbac"
)

// CreateList appends a list at the end of the board, requiring manage
// rights on the board
func (s *Service) CreateList(ctx context.Context, actor *auth.User, boardID uuid.UUID, title string) (*board.List, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}

	chain, err := s.boardChain(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	existing, err := s.store.ListsForBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	l := &board.List{
		BoardID:  boardID,
		Title:    title,
		Position: len(existing),
	}
	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Lists returns the board's lists in position order, requiring access
func (s *Service) Lists(ctx context.Context, actor *auth.User, boardID uuid.UUID) ([]board.List, error) {
	chain, err := s.boardChain(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessBoard(actor, chain.Board) {
		return nil, board.ErrForbidden
	}
	return s.store.ListsForBoard(ctx, boardID)
}

// RenameList sets a new title, requiring manage rights on the parent
// board. The current title reports ErrUnchanged.
func (s *Service) RenameList(ctx context.Context, actor *auth.User, listID uuid.UUID, title string) (*board.List, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}

	chain, err := s.listChain(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	l := chain.List
	if l.Title == title {
		return nil, fmt.Errorf("%w: title is already %q", board.ErrUnchanged, title)
	}

	l.Title = title
	if err := s.store.UpdateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ArchiveList flips the archived flag, requiring manage rights on the
// parent board. The current value reports ErrUnchanged.
func (s *Service) ArchiveList(ctx context.Context, actor *auth.User, listID uuid.UUID, archived bool) (*board.List, error) {
	chain, err := s.listChain(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	l := chain.List
	if l.Archived == archived {
		return nil, fmt.Errorf("%w: archived is already %t", board.ErrUnchanged, archived)
	}

	l.Archived = archived
	if err := s.store.UpdateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ReorderLists moves one list to newPosition and resequences the whole
// board. The target index is clamped, so any input yields dense positions
// 0..n-1 afterwards. Every list whose position changed is persisted.
func (s *Service) ReorderLists(ctx context.Context, actor *auth.User, boardID, listID uuid.UUID, newPosition int) ([]board.List, error) {
	chain, err := s.boardChain(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return nil, board.ErrForbidden
	}

	lists, err := s.store.ListsForBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range lists {
		if lists[i].ID == listID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: list %s", board.ErrNotFound, listID)
	}

	moved := lists[idx]
	rest := append(lists[:idx:idx], lists[idx+1:]...)

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(rest) {
		newPosition = len(rest)
	}

	reordered := make([]board.List, 0, len(lists))
	reordered = append(reordered, rest[:newPosition]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[newPosition:]...)

	if err := s.resequence(ctx, reordered); err != nil {
		return nil, err
	}
	return reordered, nil
}

// DeleteList removes a list and closes the position gap it leaves
func (s *Service) DeleteList(ctx context.Context, actor *auth.User, listID uuid.UUID) error {
	chain, err := s.listChain(ctx, listID)
	if err != nil {
		return err
	}
	if !rbac.CanManageBoard(actor, chain.Board, chain.Workspace) {
		return board.ErrForbidden
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}

	remaining, err := s.store.ListsForBoard(ctx, chain.Board.ID)
	if err != nil {
		return err
	}
	return s.resequence(ctx, remaining)
}

// resequence assigns dense positions 0..n-1 in slice order, writing only
// the lists whose position actually changed
func (s *Service) resequence(ctx context.Context, lists []board.List) error {
	for i := range lists {
		if lists[i].Position == i {
			continue
		}
		lists[i].Position = i
		if err := s.store.UpdateList(ctx, &lists[i]); err != nil {
			return err
		}
	}
	return nil
}
