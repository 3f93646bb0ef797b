package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
)

// maxAttachmentSize bounds multipart uploads (25 MiB)
const maxAttachmentSize = 25 << 20

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	listID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Label       string `json:"label"`
		DueInDays   int    `json:"due_in_days"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	c, err := s.boards.CreateCard(r.Context(), middleware.Actor(r), listID, boards.CreateCardInput{
		Title:       body.Title,
		Description: body.Description,
		Label:       body.Label,
		DueInDays:   body.DueInDays,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, c)
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	c, err := s.boards.Card(r.Context(), middleware.Actor(r), id)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Label       *string    `json:"label"`
		DueDate     *time.Time `json:"due_date"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	c, err := s.boards.UpdateCard(r.Context(), middleware.Actor(r), id, boards.UpdateCardInput{
		Title:       body.Title,
		Description: body.Description,
		Label:       body.Label,
		DueDate:     body.DueDate,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.boards.DeleteCard(r.Context(), middleware.Actor(r), id); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) assignCardMember(w http.ResponseWriter, r *http.Request) {
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

	c, err := s.boards.AssignCardMember(r.Context(), middleware.Actor(r), id, body.UserID)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

func (s *Server) moveCard(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		ListID uuid.UUID `json:"list_id"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	c, err := s.boards.MoveCard(r.Context(), middleware.Actor(r), id, body.ListID)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, c)
}

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		httputil.WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := s.boards.UploadAttachment(r.Context(), middleware.Actor(r), id, header.Filename, file, contentType)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, att)
}
