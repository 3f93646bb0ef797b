// Package account implements the user account lifecycle: signup with its
// transactional default workspace, login and token refresh, and the
// password reset flow.
package account
