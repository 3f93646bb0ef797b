package boards

import (
	"context"
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/blob"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

// fixture wires a real store against sqlite with a small cast of users:
// a system admin, a workspace admin with one member, and a separate board
// admin so board and workspace standing can be told apart.
type fixture struct {
	svc      *Service
	store    *storage.SQLStore
	uploader *blob.MemoryUploader

	sysAdmin   *auth.User
	wsAdmin    *auth.User
	wsMember   *auth.User
	boardAdmin *auth.User
	outsider   *auth.User

	ws  *board.Workspace
	brd *board.Board
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(ctx, db))
	store := storage.NewSQLStore(db)

	newUser := func(name, email string, role auth.Role) *auth.User {
		u := &auth.User{Name: name, Email: email, PasswordHash: "h", Role: role}
		require.NoError(t, store.CreateUser(ctx, u))
		return u
	}

	f := &fixture{
		store:      store,
		uploader:   blob.NewMemoryUploader(),
		sysAdmin:   newUser("Root", "root@example.com", auth.RoleSystemAdmin),
		wsAdmin:    newUser("WS Admin", "wsadmin@example.com", auth.RoleUser),
		wsMember:   newUser("WS Member", "wsmember@example.com", auth.RoleUser),
		boardAdmin: newUser("Board Admin", "boardadmin@example.com", auth.RoleUser),
		outsider:   newUser("Outsider", "outsider@example.com", auth.RoleUser),
	}

	f.ws = &board.Workspace{
		Title:      "Acme",
		Type:       board.WorkspaceTypeEngineering,
		Visibility: board.VisibilityPrivate,
		AdminID:    f.wsAdmin.ID,
		Members:    board.MemberSet{f.wsAdmin.ID, f.wsMember.ID},
	}
	require.NoError(t, store.CreateWorkspace(ctx, f.ws))

	f.brd = &board.Board{
		WorkspaceID: f.ws.ID,
		Title:       "Sprint",
		Visibility:  board.VisibilityPrivate,
		AdminID:     f.boardAdmin.ID,
		Members:     board.MemberSet{f.boardAdmin.ID},
	}
	require.NoError(t, store.CreateBoard(ctx, f.brd))

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	f.svc = NewService(store, f.uploader, logger)
	return f
}

// list creates a list directly through the store, bypassing authorization
func (f *fixture) list(t *testing.T, title string, position int) *board.List {
	t.Helper()
	l := &board.List{BoardID: f.brd.ID, Title: title, Position: position}
	require.NoError(t, f.store.CreateList(context.Background(), l))
	return l
}

// card creates a card directly through the store, bypassing authorization.
// owner may be nil for an ownerless card.
func (f *fixture) card(t *testing.T, l *board.List, title string, owner *auth.User) *board.Card {
	t.Helper()
	c := &board.Card{ListID: l.ID, Title: title}
	if owner != nil {
		c.AdminID = &owner.ID
	}
	require.NoError(t, f.store.CreateCard(context.Background(), c))
	return c
}
