package rbac

import (
	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
)

// Capability names a permission check, used for metrics and logging
type Capability string

const (
	CapAccessWorkspace Capability = "access_workspace"
	CapManageWorkspace Capability = "manage_workspace"
	CapAccessBoard     Capability = "access_board"
	CapManageBoard     Capability = "manage_board"
	CapViewCard        Capability = "view_card"
	CapCommentOnCard   Capability = "comment_on_card"
	CapManageCard      Capability = "manage_card"
	CapManageComment   Capability = "manage_comment"
	CapEditComment     Capability = "edit_comment"
)

func is(actor *auth.User, id uuid.UUID) bool {
	return actor != nil && actor.ID == id
}

// CanAccessWorkspace allows system admins, the workspace admin and explicit
// workspace members
func CanAccessWorkspace(actor *auth.User, ws *board.Workspace) bool {
	if actor == nil || ws == nil {
		return false
	}
	if actor.IsSystemAdmin() || is(actor, ws.AdminID) {
		return true
	}
	return ws.Members.Contains(actor.ID)
}

// CanManageWorkspace allows system admins and the workspace admin
func CanManageWorkspace(actor *auth.User, ws *board.Workspace) bool {
	if actor == nil || ws == nil {
		return false
	}
	return actor.IsSystemAdmin() || is(actor, ws.AdminID)
}

// CanAccessBoard allows system admins, the board admin and explicit board
// members. Workspace standing is deliberately not consulted: a workspace
// admin without board standing cannot read a private board, though they can
// still manage it via CanManageBoard.
func CanAccessBoard(actor *auth.User, b *board.Board) bool {
	if actor == nil || b == nil {
		return false
	}
	if actor.IsSystemAdmin() || is(actor, b.AdminID) {
		return true
	}
	return b.Members.Contains(actor.ID)
}

// CanManageBoard allows system admins, the board admin and the admin of the
// board's parent workspace
func CanManageBoard(actor *auth.User, b *board.Board, ws *board.Workspace) bool {
	if actor == nil || b == nil || ws == nil {
		return false
	}
	return actor.IsSystemAdmin() || is(actor, b.AdminID) || is(actor, ws.AdminID)
}

// CanViewCard evaluates standing top-down: system, workspace, board, then
// the card itself; the first scope that grants wins. The card may be nil
// when authorizing creation into a list, in which case only the broader
// scopes apply.
func CanViewCard(actor *auth.User, c *board.Card, b *board.Board, ws *board.Workspace) bool {
	if actor == nil || b == nil || ws == nil {
		return false
	}
	if actor.IsSystemAdmin() {
		return true
	}
	if is(actor, ws.AdminID) || ws.Members.Contains(actor.ID) {
		return true
	}
	if is(actor, b.AdminID) || b.Members.Contains(actor.ID) {
		return true
	}
	if c != nil {
		if c.AdminID != nil && is(actor, *c.AdminID) {
			return true
		}
		return c.Members.Contains(actor.ID)
	}
	return false
}

// CanCommentOnCard is identical to CanViewCard: comment access equals view
// access
func CanCommentOnCard(actor *auth.User, c *board.Card, b *board.Board, ws *board.Workspace) bool {
	return CanViewCard(actor, c, b, ws)
}

// CanManageCard allows system admins, the workspace admin, the board admin
// and the card's own admin. Card membership grants view standing only,
// never manage rights.
func CanManageCard(actor *auth.User, c *board.Card, b *board.Board, ws *board.Workspace) bool {
	if actor == nil || b == nil || ws == nil {
		return false
	}
	if actor.IsSystemAdmin() || is(actor, ws.AdminID) || is(actor, b.AdminID) {
		return true
	}
	return c != nil && c.AdminID != nil && is(actor, *c.AdminID)
}

// CanManageComment allows system admins, the workspace admin, the board
// admin and the comment's author
func CanManageComment(actor *auth.User, cm *board.Comment, b *board.Board, ws *board.Workspace) bool {
	if actor == nil || cm == nil || b == nil || ws == nil {
		return false
	}
	if actor.IsSystemAdmin() || is(actor, ws.AdminID) || is(actor, b.AdminID) {
		return true
	}
	return is(actor, cm.AuthorID)
}

// CanEditComment allows exactly the comment's author. There is no admin
// override: editing is an authorship guarantee, moderation goes through
// CanManageComment.
func CanEditComment(actor *auth.User, cm *board.Comment) bool {
	if actor == nil || cm == nil {
		return false
	}
	return is(actor, cm.AuthorID)
}

// CanManage dispatches the manage capability for the invitable resource
// kinds. Unknown kinds deny.
func CanManage(actor *auth.User, kind board.Kind, chain *board.Chain) bool {
	if chain == nil {
		return false
	}
	switch kind {
	case board.KindWorkspace:
		return CanManageWorkspace(actor, chain.Workspace)
	case board.KindBoard:
		return CanManageBoard(actor, chain.Board, chain.Workspace)
	default:
		return false
	}
}
