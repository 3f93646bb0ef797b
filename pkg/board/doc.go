// Package board models the resource hierarchy — workspace, board, list,
// card, comment — and the services that mutate it.
//
// Every entity carries an admin reference and, where membership applies, an
// explicit member set. Permission decisions over these entities live in
// pkg/rbac and operate on fully resolved ancestor chains: a card is never
// authorized from its own fields alone, the service resolves list, board and
// workspace first and treats any gap in the chain as not-found, before
// authorization is attempted.
package board
