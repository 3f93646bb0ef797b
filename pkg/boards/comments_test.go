package boards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/board"
)

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.list(t, "Todo", 0)
	c := f.card(t, l, "Task", nil)

	cm, err := f.svc.AddComment(ctx, f.wsMember, c.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, f.wsMember.ID, cm.AuthorID)
	assert.Equal(t, "looks good", cm.Text)

	_, err = f.svc.AddComment(ctx, f.outsider, c.ID, "hi")
	assert.ErrorIs(t, err, board.ErrForbidden)

	_, err = f.svc.AddComment(ctx, f.wsMember, c.ID, "")
	assert.ErrorIs(t, err, board.ErrValidation)

	_, err = f.svc.AddComment(ctx, f.wsMember, uuid.New(), "lost")
	assert.ErrorIs(t, err, board.ErrNotFound)
}

func TestEditComment_AuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.list(t, "Todo", 0)
	c := f.card(t, l, "Task", nil)

	cm, err := f.svc.AddComment(ctx, f.wsMember, c.ID, "first draft")
	require.NoError(t, err)

	edited, err := f.svc.EditComment(ctx, f.wsMember, cm.ID, "final draft")
	require.NoError(t, err)
	assert.Equal(t, "final draft", edited.Text)

	// no admin override on editing, not even system admins
	_, err = f.svc.EditComment(ctx, f.sysAdmin, cm.ID, "overwritten")
	assert.ErrorIs(t, err, board.ErrForbidden)
	_, err = f.svc.EditComment(ctx, f.wsAdmin, cm.ID, "overwritten")
	assert.ErrorIs(t, err, board.ErrForbidden)

	_, err = f.svc.EditComment(ctx, f.wsMember, cm.ID, "")
	assert.ErrorIs(t, err, board.ErrValidation)
}

func TestDeleteComment_Moderation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.list(t, "Todo", 0)
	c := f.card(t, l, "Task", nil)

	byMember := func() *board.Comment {
		cm, err := f.svc.AddComment(ctx, f.wsMember, c.ID, "noise")
		require.NoError(t, err)
		return cm
	}

	// author, workspace admin and board admin may all moderate
	cm := byMember()
	require.NoError(t, f.svc.DeleteComment(ctx, f.wsMember, cm.ID))

	cm = byMember()
	require.NoError(t, f.svc.DeleteComment(ctx, f.wsAdmin, cm.ID))

	cm = byMember()
	require.NoError(t, f.svc.DeleteComment(ctx, f.boardAdmin, cm.ID))

	cm = byMember()
	err := f.svc.DeleteComment(ctx, f.outsider, cm.ID)
	assert.ErrorIs(t, err, board.ErrForbidden)

	err = f.svc.DeleteComment(ctx, f.wsAdmin, uuid.New())
	assert.ErrorIs(t, err, board.ErrNotFound)
}
