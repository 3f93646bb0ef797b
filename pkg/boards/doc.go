// Package boards implements the operations on the resource hierarchy:
// workspaces, boards, lists, cards and comments.
//
// Every operation resolves the target's ancestor chain first, raising
// not-found for a broken chain before any authorization is attempted, then
// consults pkg/rbac and translates a deny into ErrForbidden. The service
// never reaches past the storage interface and holds no state of its own.
package boards
