// Package storage is the repository collaborator: it owns all reads and
// writes of users and hierarchy resources, and exposes the transactional
// boundary that signup requires.
//
// The services operate on in-memory snapshots loaded from here and hand
// derived writes back; they never reach into SQL themselves. Lookups return
// (nil, nil) for a missing row — translating absence into a not-found error
// is the caller's concern, because only the caller knows whether absence is
// exceptional.
//
// SQLStore speaks portable SQL: production runs it on PostgreSQL (lib/pq),
// the test suite runs the identical store on an in-memory sqlite database.
package storage
