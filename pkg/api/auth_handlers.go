package api

import (
	"net/http"
	"time"

	"github.com/tackboard/tack/pkg/httputil"
	"github.com/tackboard/tack/pkg/middleware"
	"github.com/tackboard/tack/pkg/sso"
)

const stateCookie = "tack_oauth_state"

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	res, err := s.accounts.Signup(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteCreated(w, res)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	u, tokens, err := s.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"user":   u,
		"tokens": tokens,
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	tokens, err := s.accounts.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, tokens)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	u, err := s.accounts.Me(r.Context(), actor.ID)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, u)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}

	if err := s.accounts.ForgotPassword(r.Context(), body.Email); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"message": "password reset link sent"})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !httputil.ParseJSONOrError(w, r, &body) {
		return
	}
	if body.Token == "" {
		body.Token = r.URL.Query().Get("token")
	}

	if err := s.accounts.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"message": "password changed"})
}

func (s *Server) ssoLogin(w http.ResponseWriter, r *http.Request) {
	state := sso.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/sso",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.oidc.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) ssoCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		httputil.WriteBadRequest(w, "state mismatch")
		return
	}
	// one-shot state
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/sso", MaxAge: -1})

	u, tokens, err := s.oidc.HandleCallback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.logger.WithError(err).Warn("sso callback failed")
		httputil.WriteUnauthorized(w, "sign-in failed")
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"user":   u,
		"tokens": tokens,
	})
}
