// Package api exposes the HTTP surface: routing, request decoding, and
// the translation of service results and errors into responses. Handlers
// stay thin; every decision lives in the account, boards and invite
// services.
package api
