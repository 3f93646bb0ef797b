package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
)

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	boardID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title string `json:"title"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	l, err := s.boards.CreateList(r.Context(), middleware.Actor(r), boardID, body.Title)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, l)
}

func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	boardID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	lists, err := s.boards.Lists(r.Context(), middleware.Actor(r), boardID)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, lists)
}

func (s *Server) reorderLists(w http.ResponseWriter, r *http.Request) {
	boardID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		ListID   uuid.UUID `json:"list_id"`
		Position int       `json:"position"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	lists, err := s.boards.ReorderLists(r.Context(), middleware.Actor(r), boardID, body.ListID, body.Position)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, lists)
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title    *string `json:"title"`
		Archived *bool   `json:"archived"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	actor := middleware.Actor(r)
	switch {
	case body.Title != nil:
		l, err := s.boards.RenameList(r.Context(), actor, id, *body.Title)
		if err != nil {
			httputil.WriteServiceError(w, err)
			return
		}
		httputil.WriteSuccess(w, l)
	case body.Archived != nil:
		l, err := s.boards.ArchiveList(r.Context(), actor, id, *body.Archived)
		if err != nil {
			httputil.WriteServiceError(w, err)
			return
		}
		httputil.WriteSuccess(w, l)
	default:
		httputil.WriteBadRequest(w, "nothing to update")
	}
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.boards.DeleteList(r.Context(), middleware.Actor(r), id); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
