package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tackboard/tack/pkg/account"
	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/invite"
	"github.com/tackboard/tack/pkg/middleware"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/sso"
)

// Server represents the API server
type Server struct {
	router   *mux.Router
	handler  http.Handler
	accounts *account.Service
	boards   *boards.Service
	invites  *invite.Service
	oidc     *sso.Provider
	logger   *observability.Logger
}

// Deps carries everything the server needs. OIDC and Limiter are
// optional; Metrics may be nil.
type Deps struct {
	Accounts *account.Service
	Boards   *boards.Service
	Invites  *invite.Service
	Auth     *middleware.AuthMiddleware
	Limiter  *middleware.RateLimiter
	OIDC     *sso.Provider
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// NewServer creates the API server and wires all routes
func NewServer(deps Deps) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		accounts: deps.Accounts,
		boards:   deps.Boards,
		invites:  deps.Invites,
		oidc:     deps.OIDC,
		logger:   deps.Logger,
	}

	s.router.Use(middleware.Recover(deps.Logger))
	s.router.Use(middleware.Instrument(deps.Logger, deps.Metrics))
	if deps.Limiter != nil {
		s.router.Use(deps.Limiter.Handler)
	}

	s.setupRoutes(deps.Auth)

	s.handler = otelhttp.NewHandler(s.router, "tack-api")
	return s
}

func (s *Server) setupRoutes(authMW *middleware.AuthMiddleware) {
	api := s.router.PathPrefix("/api").Subrouter()

	// Public routes: account bootstrap and token-carrying invite links
	api.HandleFunc("/auth/signup", s.signup).Methods("POST")
	api.HandleFunc("/auth/login", s.login).Methods("POST")
	api.HandleFunc("/auth/refresh", s.refresh).Methods("POST")
	api.HandleFunc("/auth/forgot-password", s.forgotPassword).Methods("POST")
	api.HandleFunc("/auth/reset-password", s.resetPassword).Methods("POST")

	api.HandleFunc("/invites/accept/{token}", s.acceptInvite).Methods("GET", "POST")
	api.HandleFunc("/invites/reject/{token}", s.rejectInvite).Methods("GET", "POST")

	if s.oidc != nil {
		api.HandleFunc("/sso/login", s.ssoLogin).Methods("GET")
		api.HandleFunc("/sso/callback", s.ssoCallback).Methods("GET")
	}

	// Everything below requires a session
	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.Handler)

	authed.HandleFunc("/me", s.me).Methods("GET")

	authed.HandleFunc("/workspaces", s.createWorkspace).Methods("POST")
	authed.HandleFunc("/workspaces", s.listWorkspaces).Methods("GET")
	authed.HandleFunc("/workspaces/{id}", s.getWorkspace).Methods("GET")
	authed.HandleFunc("/workspaces/{id}", s.updateWorkspace).Methods("PATCH")
	authed.HandleFunc("/workspaces/{id}", s.deleteWorkspace).Methods("DELETE")
	authed.HandleFunc("/workspaces/{id}/visibility", s.setWorkspaceVisibility).Methods("PUT")
	authed.HandleFunc("/workspaces/{id}/invites", s.inviteToWorkspace).Methods("POST")
	authed.HandleFunc("/workspaces/{id}/members", s.addWorkspaceMember).Methods("POST")

	authed.HandleFunc("/boards", s.createBoard).Methods("POST")
	authed.HandleFunc("/boards", s.listBoards).Methods("GET")
	authed.HandleFunc("/boards/{id}", s.getBoard).Methods("GET")
	authed.HandleFunc("/boards/{id}", s.updateBoard).Methods("PATCH")
	authed.HandleFunc("/boards/{id}", s.deleteBoard).Methods("DELETE")
	authed.HandleFunc("/boards/{id}/visibility", s.setBoardVisibility).Methods("PUT")
	authed.HandleFunc("/boards/{id}/archive", s.archiveBoard).Methods("PUT")
	authed.HandleFunc("/boards/{id}/invites", s.inviteToBoard).Methods("POST")
	authed.HandleFunc("/boards/{id}/members", s.addBoardMember).Methods("POST")
	authed.HandleFunc("/boards/{id}/lists", s.createList).Methods("POST")
	authed.HandleFunc("/boards/{id}/lists", s.getLists).Methods("GET")
	authed.HandleFunc("/boards/{id}/lists/reorder", s.reorderLists).Methods("PUT")

	authed.HandleFunc("/lists/{id}", s.updateList).Methods("PATCH")
	authed.HandleFunc("/lists/{id}", s.deleteList).Methods("DELETE")
	authed.HandleFunc("/lists/{id}/cards", s.createCard).Methods("POST")

	authed.HandleFunc("/cards/{id}", s.getCard).Methods("GET")
	authed.HandleFunc("/cards/{id}", s.updateCard).Methods("PATCH")
	authed.HandleFunc("/cards/{id}", s.deleteCard).Methods("DELETE")
	authed.HandleFunc("/cards/{id}/members", s.assignCardMember).Methods("POST")
	authed.HandleFunc("/cards/{id}/move", s.moveCard).Methods("PUT")
	authed.HandleFunc("/cards/{id}/attachments", s.uploadAttachment).Methods("POST")
	authed.HandleFunc("/cards/{id}/comments", s.addComment).Methods("POST")

	authed.HandleFunc("/comments/{id}", s.editComment).Methods("PATCH")
	authed.HandleFunc("/comments/{id}", s.deleteComment).Methods("DELETE")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
