package board

import "errors"

// Sentinel errors shared by the board, invite and account services. The
// HTTP layer maps each to a distinct status; none of them is retried.
var (
	// ErrForbidden is the translation of an authorization deny
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound covers a missing resource or a broken ancestor chain
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyMember reports an idempotency guard, not a failure: the
	// membership the caller asked for already exists
	ErrAlreadyMember = errors.New("user is already a member")
	// ErrAlreadyExists reports a uniqueness conflict (duplicate email)
	ErrAlreadyExists = errors.New("already exists")
	// ErrOwnerCannotBeMember rejects adding a resource's admin to its own
	// explicit member list
	ErrOwnerCannotBeMember = errors.New("owner cannot be added as a member")
	// ErrUnchanged reports a no-op mutation: the requested value equals the
	// current one
	ErrUnchanged = errors.New("value unchanged")
	// ErrValidation covers malformed input to a service operation
	ErrValidation = errors.New("validation failed")
)
