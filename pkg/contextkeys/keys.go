// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import (
	"context"

	"github.com/tackboard/tack/pkg/auth"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// ActorKey contains the authenticated *auth.User
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: every protected API endpoint; handlers pull the actor out
	// and pass it explicitly into the board, invite and account services
	ActorKey Key = "actor"

	// RequestIDKey contains request ID string (UUID)
	// Set by: HTTP middleware, observability layer
	// Used by: Logger, distributed tracing
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: Observability middleware
	// Used by: Handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"
)

// WithActor adds the authenticated user to the context
func WithActor(ctx context.Context, u *auth.User) context.Context {
	return context.WithValue(ctx, ActorKey, u)
}

// Actor extracts the authenticated user from the context, or nil
func Actor(ctx context.Context) *auth.User {
	u, _ := ctx.Value(ActorKey).(*auth.User)
	return u
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the request ID from the context, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
