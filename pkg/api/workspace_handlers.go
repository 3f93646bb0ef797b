package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
)

func (s *Server) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Type        string   `json:"workspace_type"`
		Visibility  string   `json:"visibility"`
		Labels      []string `json:"labels"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	ws, err := s.boards.CreateWorkspace(r.Context(), middleware.Actor(r), boards.CreateWorkspaceInput{
		Title:       body.Title,
		Description: body.Description,
		Type:        board.WorkspaceType(body.Type),
		Visibility:  board.Visibility(body.Visibility),
		Labels:      body.Labels,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, ws)
}

func (s *Server) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.boards.Workspaces(r.Context(), middleware.Actor(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) getWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	ws, err := s.boards.Workspace(r.Context(), middleware.Actor(r), id)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, ws)
}

func (s *Server) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Type        *string   `json:"workspace_type"`
		Labels      *[]string `json:"labels"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	in := boards.UpdateWorkspaceInput{
		Title:       body.Title,
		Description: body.Description,
		Labels:      body.Labels,
	}
	if body.Type != nil {
		t := board.WorkspaceType(*body.Type)
		in.Type = &t
	}

	ws, err := s.boards.UpdateWorkspace(r.Context(), middleware.Actor(r), id, in)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, ws)
}

func (s *Server) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.boards.DeleteWorkspace(r.Context(), middleware.Actor(r), id); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) setWorkspaceVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Visibility string `json:"visibility"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	ws, err := s.boards.SetWorkspaceVisibility(r.Context(), middleware.Actor(r), id, board.Visibility(body.Visibility))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, ws)
}

func (s *Server) inviteToWorkspace(w http.ResponseWriter, r *http.Request) {
	s.issueInvites(w, r, board.KindWorkspace)
}

func (s *Server) addWorkspaceMember(w http.ResponseWriter, r *http.Request) {
	s.addMemberDirect(w, r, board.KindWorkspace)
}

// issueInvites is shared by the workspace and board invite endpoints
func (s *Server) issueInvites(w http.ResponseWriter, r *http.Request, kind board.Kind) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Emails []string `json:"emails"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	reports, err := s.invites.Issue(r.Context(), middleware.Actor(r), kind, id, body.Emails)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"deliveries": reports})
}

// addMemberDirect is shared by the workspace and board member endpoints
func (s *Server) addMemberDirect(w http.ResponseWriter, r *http.Request, kind board.Kind) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	if err := s.invites.AddMemberDirect(r.Context(), middleware.Actor(r), kind, id, body.UserID); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"message": "member added"})
}
