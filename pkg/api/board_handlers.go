package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
)

func (s *Server) createBoard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID uuid.UUID `json:"workspace_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Visibility  string    `json:"visibility"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	b, err := s.boards.CreateBoard(r.Context(), middleware.Actor(r), boards.CreateBoardInput{
		WorkspaceID: body.WorkspaceID,
		Title:       body.Title,
		Description: body.Description,
		Visibility:  board.Visibility(body.Visibility),
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, b)
}

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request) {
	list, err := s.boards.Boards(r.Context(), middleware.Actor(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	b, err := s.boards.Board(r.Context(), middleware.Actor(r), id)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, b)
}

func (s *Server) updateBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	b, err := s.boards.UpdateBoard(r.Context(), middleware.Actor(r), id, boards.UpdateBoardInput{
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, b)
}

func (s *Server) deleteBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.boards.DeleteBoard(r.Context(), middleware.Actor(r), id); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) setBoardVisibility(w http.ResponseWriter, r *http.Request) {
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

	b, err := s.boards.SetBoardVisibility(r.Context(), middleware.Actor(r), id, board.Visibility(body.Visibility))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, b)
}

func (s *Server) archiveBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Archived bool `json:"archived"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	b, err := s.boards.ArchiveBoard(r.Context(), middleware.Actor(r), id, body.Archived)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, b)
}

func (s *Server) inviteToBoard(w http.ResponseWriter, r *http.Request) {
	s.issueInvites(w, r, board.KindBoard)
}

func (s *Server) addBoardMember(w http.ResponseWriter, r *http.Request) {
	s.addMemberDirect(w, r, board.KindBoard)
}
