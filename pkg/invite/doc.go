// Package invite implements membership onboarding for workspaces and
// boards.
//
// Invitations are stateless: each one is a signed token binding the target
// resource and the invited address, valid for a short window. Nothing is
// persisted per invitation beyond an email delivery record kept for
// operators, so accepting is the only moment the system grants membership,
// and accepting twice is a no-op.
package invite
