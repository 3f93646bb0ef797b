// Package middleware provides the HTTP middleware chain: bearer-token
// authentication with a short-lived verification cache, Redis-backed rate
// limiting, and request logging/metrics instrumentation.
package middleware
