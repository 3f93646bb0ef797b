// Package rbac is the authorization engine: pure decision functions over an
// actor and a resolved resource chain.
//
// Permission is evaluated as a chain of increasingly narrow scopes — system,
// workspace, board, card/comment — where each scope is independently
// sufficient (OR semantics). Broader administrative standing always subsumes
// narrower standing, with one deliberate exception: CanEditComment is
// author-only, modelling an authorship guarantee distinct from moderation
// (CanManageComment).
//
// The engine performs no I/O and never returns an error: absence of
// permission is a plain false, and a nil or unauthenticated actor degrades
// to deny. Existence checks are not its job — callers resolve the full
// ancestor chain first and surface a missing ancestor as not-found before
// any capability is consulted.
package rbac
