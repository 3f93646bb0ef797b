package api

import (
	"net/http"

	"github.com/tackboard/tack/pkg/httputil"
)

// acceptInvite resolves an invitation token. Existing accounts accept via
// the bare GET link; a new person POSTs name and password so the account
// can be created in the same step.
func (s *Server) acceptInvite(w http.ResponseWriter, r *http.Request) {
	token, err := httputil.ParsePathString(r, "token")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	var body struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if r.Method == http.MethodPost && r.Body != nil && r.ContentLength > 0 {
		if !httputil.ParseJSONOrError(w, r, &body) {
			return
		}
	}

	res, err := s.invites.Accept(r.Context(), token, body.Name, body.Password)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	status := http.StatusOK
	if res.AlreadyMember {
		// a second accept of the same token is a no-op, not an error
		status = http.StatusAlreadyReported
	}
	httputil.WriteJSON(w, status, res)
}

func (s *Server) rejectInvite(w http.ResponseWriter, r *http.Request) {
	token, err := httputil.ParsePathString(r, "token")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	claims, err := s.invites.Reject(r.Context(), token)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{
		"message": "invitation rejected",
		"kind":    claims.ResourceKind,
	})
}
