package middleware

import (
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/contextkeys"
	"github.com/tackboard/tack/pkg/storage"
)

// AuthMiddleware authenticates requests by their bearer access token and
// places the resolved *auth.User on the request context. Verified tokens
// are cached briefly so a chatty client does not hit the database on
// every request; the cache TTL stays well under the access-token TTL.
type AuthMiddleware struct {
	signer *auth.SessionSigner
	store  storage.Store
	cache  *lru.LRU[string, *auth.User]
}

// NewAuthMiddleware creates an authentication middleware
func NewAuthMiddleware(signer *auth.SessionSigner, store storage.Store) *AuthMiddleware {
	return &AuthMiddleware{
		signer: signer,
		store:  store,
		cache:  lru.NewLRU[string, *auth.User](1024, nil, 30*time.Second),
	}
}

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Format: "Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorizedResponse(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.unauthorizedResponse(w, "invalid authorization header format")
			return
		}
		token := parts[1]

		u, ok := m.cache.Get(token)
		if !ok {
			claims, err := m.signer.VerifyAccess(token)
			if err != nil {
				m.unauthorizedResponse(w, "invalid or expired token")
				return
			}
			u, err = m.store.GetUser(r.Context(), claims.UserID)
			if err != nil || u == nil {
				m.unauthorizedResponse(w, "unknown account")
				return
			}
			m.cache.Add(token, u)
		}

		ctx := contextkeys.WithActor(r.Context(), u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// Actor extracts the authenticated user from the request, or nil
func Actor(r *http.Request) *auth.User {
	return contextkeys.Actor(r.Context())
}
