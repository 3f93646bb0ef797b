// Package auth holds the identity model and the credential and token
// primitives the rest of the system consumes.
//
// A User carries a coarse system-wide role: almost everyone is RoleUser, and
// RoleSystemAdmin short-circuits every capability check in pkg/rbac. Finer
// grained standing (workspace admin, board member, card owner) lives on the
// resources themselves in pkg/board.
//
// Two token purposes are kept deliberately separate, each with its own
// secret: session tokens (an access/refresh pair minted at login) and
// invitation tokens (15-minute, single-purpose, see pkg/invite). A leaked
// invitation secret must never mint a session.
package auth
