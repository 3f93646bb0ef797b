package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/blob"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

// Service implements the hierarchy operations
type Service struct {
	store    storage.Store
	uploader blob.Uploader
	logger   *observability.Logger
}

// NewService creates the service
func NewService(store storage.Store, uploader blob.Uploader, logger *observability.Logger) *Service {
	return &Service{store: store, uploader: uploader, logger: logger}
}

// The chain resolvers below load a resource together with every ancestor
// its authorization needs. A missing link anywhere is not-found for the
// whole chain; authorization never sees a partial one.

func (s *Service) workspaceChain(ctx context.Context, id uuid.UUID) (*board.Chain, error) {
	ws, err := s.store.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", board.ErrNotFound, id)
	}
	return &board.Chain{Workspace: ws}, nil
}

func (s *Service) boardChain(ctx context.Context, id uuid.UUID) (*board.Chain, error) {
	b, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: board %s", board.ErrNotFound, id)
	}
	chain, err := s.workspaceChain(ctx, b.WorkspaceID)
	if err != nil {
		return nil, err
	}
	chain.Board = b
	return chain, nil
}

func (s *Service) listChain(ctx context.Context, id uuid.UUID) (*board.Chain, error) {
	l, err := s.store.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: list %s", board.ErrNotFound, id)
	}
	chain, err := s.boardChain(ctx, l.BoardID)
	if err != nil {
		return nil, err
	}
	chain.List = l
	return chain, nil
}

func (s *Service) cardChain(ctx context.Context, id uuid.UUID) (*board.Chain, error) {
	c, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: card %s", board.ErrNotFound, id)
	}
	chain, err := s.listChain(ctx, c.ListID)
	if err != nil {
		return nil, err
	}
	chain.Card = c
	return chain, nil
}

func (s *Service) commentChain(ctx context.Context, id uuid.UUID) (*board.Chain, error) {
	cm, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, fmt.Errorf("%w: comment %s", board.ErrNotFound, id)
	}
	chain, err := s.cardChain(ctx, cm.CardID)
	if err != nil {
		return nil, err
	}
	chain.Comment = cm
	return chain, nil
}
