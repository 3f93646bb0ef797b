package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/rbac"
)

// CreateWorkspaceInput carries the fields a caller may set at creation
type CreateWorkspaceInput struct {
	Title       string
	Description string
	Type        board.WorkspaceType
	Visibility  board.Visibility
	Labels      []string
}

// CreateWorkspace creates a workspace owned by the actor. The actor is
// stored in the member set as well; the authorization engine would treat
// the admin as a member either way.
func (s *Service) CreateWorkspace(ctx context.Context, actor *auth.User, in CreateWorkspaceInput) (*board.Workspace, error) {
	if actor == nil {
		return nil, board.ErrForbidden
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", board.ErrValidation)
	}
	if in.Type == "" {
		in.Type = board.WorkspaceTypeOther
	}
	if in.Visibility == "" {
		in.Visibility = board.VisibilityPrivate
	}
	if in.Visibility != board.VisibilityPrivate && in.Visibility != board.VisibilityPublic {
		return nil, fmt.Errorf("%w: invalid workspace visibility %q", board.ErrValidation, in.Visibility)
	}

	ws := &board.Workspace{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Visibility:  in.Visibility,
		Labels:      in.Labels,
		AdminID:     actor.ID,
		Members:     board.MemberSet{actor.ID},
	}
	if err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id": ws.ID.String(),
		"admin_id":     actor.ID.String(),
	}).Info("workspace created")
	return ws, nil
}

// Workspaces lists the workspaces the actor can access
func (s *Service) Workspaces(ctx context.Context, actor *auth.User) ([]board.Workspace, error) {
	if actor == nil {
		return nil, board.ErrForbidden
	}

	all, err := s.store.ListWorkspacesForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	visible := make([]board.Workspace, 0, len(all))
	for _, ws := range all {
		if rbac.CanAccessWorkspace(actor, &ws) {
			visible = append(visible, ws)
		}
	}
	return visible, nil
}

// Workspace fetches one workspace the actor can access
func (s *Service) Workspace(ctx context.Context, actor *auth.User, id uuid.UUID) (*board.Workspace, error) {
	chain, err := s.workspaceChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessWorkspace(actor, chain.Workspace) {
		return nil, board.ErrForbidden
	}
	return chain.Workspace, nil
}

// UpdateWorkspaceInput holds partial updates; nil fields stay unchanged
type UpdateWorkspaceInput struct {
	Title       *string
	Description *string
	Type        *board.WorkspaceType
	Labels      *[]string
}

// UpdateWorkspace applies in to the workspace, requiring manage rights
func (s *Service) UpdateWorkspace(ctx context.Context, actor *auth.User, id uuid.UUID, in UpdateWorkspaceInput) (*board.Workspace, error) {
	chain, err := s.workspaceChain(ctx, id)
	if err != nil {
		return nil, err
	}
	ws := chain.Workspace
	if !rbac.CanManageWorkspace(actor, ws) {
		return nil, board.ErrForbidden
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", board.ErrValidation)
		}
		ws.Title = *in.Title
	}
	if in.Description != nil {
		ws.Description = *in.Description
	}
	if in.Type != nil {
		ws.Type = *in.Type
	}
	if in.Labels != nil {
		ws.Labels = *in.Labels
	}

	if err := s.store.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// DeleteWorkspace removes the workspace and everything in it
func (s *Service) DeleteWorkspace(ctx context.Context, actor *auth.User, id uuid.UUID) error {
	chain, err := s.workspaceChain(ctx, id)
	if err != nil {
		return err
	}
	if !rbac.CanManageWorkspace(actor, chain.Workspace) {
		return board.ErrForbidden
	}

	if err := s.store.DeleteWorkspace(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("workspace_id", id.String()).Info("workspace deleted")
	return nil
}

// SetWorkspaceVisibility switches between Private and Public. Asking for
// the current value reports ErrUnchanged instead of writing.
func (s *Service) SetWorkspaceVisibility(ctx context.Context, actor *auth.User, id uuid.UUID, v board.Visibility) (*board.Workspace, error) {
	if v != board.VisibilityPrivate && v != board.VisibilityPublic {
		return nil, fmt.Errorf("%w: invalid workspace visibility %q", board.ErrValidation, v)
	}

	chain, err := s.workspaceChain(ctx, id)
	if err != nil {
		return nil, err
	}
	ws := chain.Workspace
	if !rbac.CanManageWorkspace(actor, ws) {
		return nil, board.ErrForbidden
	}
	if ws.Visibility == v {
		return nil, fmt.Errorf("%w: visibility is already %s", board.ErrUnchanged, v)
	}

	ws.Visibility = v
	if err := s.store.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
