package api

import (
	"net/http"

	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
)

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	cardID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	cm, err := s.boards.AddComment(r.Context(), middleware.Actor(r), cardID, body.Text)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, cm)
}

func (s *Server) editComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	cm, err := s.boards.EditComment(r.Context(), middleware.Actor(r), id, body.Text)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, cm)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.boards.DeleteComment(r.Context(), middleware.Actor(r), id); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
