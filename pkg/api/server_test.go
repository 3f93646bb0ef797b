package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/account"
	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/blob"
	"github.com/tackboard/tack/pkg/board"
	"github.com/tackboard/tack/pkg/boards"
	"github.com/tackboard/tack/pkg/invite"
	"github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/middleware"
	"github.com/tackboard/tack/pkg/observability"
	"github.com/tackboard/tack/pkg/storage"
)

// testServer is the full stack on sqlite, with mail captured in-process
type testServer struct {
	srv      *Server
	store    *storage.SQLStore
	mailer   *mail.Recorder
	uploader *blob.MemoryUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(ctx, db))

	store := storage.NewSQLStore(db)
	mailer := mail.NewRecorder()
	uploader := blob.NewMemoryUploader()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	sessionSigner := auth.NewSessionSigner("access", "refresh", time.Hour, 24*time.Hour)
	inviteSigner := auth.NewInviteSigner("invite", 15*time.Minute)
	hasher := auth.NewBcryptHasher(4)

	srv := NewServer(Deps{
		Accounts: account.NewService(store, mailer, sessionSigner, hasher, "https://tack.test", logger, nil),
		Boards:   boards.NewService(store, uploader, logger),
		Invites:  invite.NewService(store, mailer, inviteSigner, hasher, "https://tack.test", logger, nil),
		Auth:     middleware.NewAuthMiddleware(sessionSigner, store),
		Logger:   logger,
	})

	return &testServer{srv: srv, store: store, mailer: mailer, uploader: uploader}
}

// do sends a JSON request, with a bearer token when one is given
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// signup registers a user through the API and returns their access token
func (ts *testServer) signup(t *testing.T, name, email string) (uuid.UUID, string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[account.SignupResult](t, rec)
	return res.User.ID, res.Tokens.AccessToken
}

func TestSignupLoginMe(t *testing.T) {
	ts := newTestServer(t)

	userID, token := ts.signup(t, "Ada", "ada@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "longenough",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[auth.User](t, rec)
	assert.Equal(t, userID, me.ID)

	rec = ts.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkspaceLifecycle(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	_, otherToken := ts.signup(t, "Eve", "eve@example.com")

	rec := ts.do(t, http.MethodPost, "/api/workspaces", token, map[string]interface{}{
		"title": "Acme", "workspace_type": "Engineering",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ws := decode[board.Workspace](t, rec)
	assert.Equal(t, board.VisibilityPrivate, ws.Visibility)

	// signup already created a default workspace, so the owner sees two
	rec = ts.do(t, http.MethodGet, "/api/workspaces", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]board.Workspace](t, rec), 2)

	// a stranger cannot see or touch it
	rec = ts.do(t, http.MethodGet, "/api/workspaces/"+ws.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/workspaces/"+ws.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	title := "Acme Corp"
	rec = ts.do(t, http.MethodPatch, "/api/workspaces/"+ws.ID.String(), token, map[string]string{"title": title})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, title, decode[board.Workspace](t, rec).Title)

	rec = ts.do(t, http.MethodPut, "/api/workspaces/"+ws.ID.String()+"/visibility", token,
		map[string]string{"visibility": "Public"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// setting the same visibility twice reports the no-op
	rec = ts.do(t, http.MethodPut, "/api/workspaces/"+ws.ID.String()+"/visibility", token,
		map[string]string{"visibility": "Public"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unchanged")

	rec = ts.do(t, http.MethodDelete, "/api/workspaces/"+ws.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/workspaces/"+ws.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// buildBoard creates workspace -> board -> list through the API
func (ts *testServer) buildBoard(t *testing.T, token string) (board.Workspace, board.Board, board.List) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/workspaces", token, map[string]string{"title": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ws := decode[board.Workspace](t, rec)

	rec = ts.do(t, http.MethodPost, "/api/boards", token, map[string]interface{}{
		"workspace_id": ws.ID, "title": "Sprint",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := decode[board.Board](t, rec)

	rec = ts.do(t, http.MethodPost, "/api/boards/"+b.ID.String()+"/lists", token, map[string]string{"title": "Todo"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	l := decode[board.List](t, rec)
	return ws, b, l
}

func TestBoardAndListFlow(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	_, b, l := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/boards/"+b.ID.String()+"/lists", token, map[string]string{"title": "Done"})
	require.Equal(t, http.StatusCreated, rec.Code)
	done := decode[board.List](t, rec)
	assert.Equal(t, 1, done.Position)

	rec = ts.do(t, http.MethodPut, "/api/boards/"+b.ID.String()+"/lists/reorder", token,
		map[string]interface{}{"list_id": done.ID, "position": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	lists := decode[[]board.List](t, rec)
	require.Len(t, lists, 2)
	assert.Equal(t, "Done", lists[0].Title)
	assert.Equal(t, 0, lists[0].Position)
	assert.Equal(t, 1, lists[1].Position)

	rec = ts.do(t, http.MethodPatch, "/api/lists/"+l.ID.String(), token, map[string]string{"title": "Backlog"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/lists/"+l.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/boards/"+b.ID.String()+"/lists", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	remaining := decode[[]board.List](t, rec)
	require.Len(t, remaining, 1)
	assert.Equal(t, 0, remaining[0].Position)
}

func TestCardAndCommentFlow(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	_, _, l := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/lists/"+l.ID.String()+"/cards", token, map[string]interface{}{
		"title": "Ship it", "due_in_days": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decode[board.Card](t, rec)
	require.NotNil(t, c.DueDate)

	rec = ts.do(t, http.MethodPost, "/api/cards/"+c.ID.String()+"/comments", token, map[string]string{"text": "on it"})
	require.Equal(t, http.StatusCreated, rec.Code)
	cm := decode[board.Comment](t, rec)

	rec = ts.do(t, http.MethodPatch, "/api/comments/"+cm.ID.String(), token, map[string]string{"text": "done"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", decode[board.Comment](t, rec).Text)

	rec = ts.do(t, http.MethodDelete, "/api/comments/"+cm.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/cards/"+c.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUploadAttachment(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	_, _, l := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/lists/"+l.ID.String()+"/cards", token, map[string]string{"title": "Task"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[board.Card](t, rec)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/cards/"+c.ID.String()+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	ts.srv.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	att := decode[board.Attachment](t, res)
	assert.NotEmpty(t, att.URL)
	assert.Equal(t, 1, ts.uploader.Len())
}

func TestInvitationFlow(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	ws, _, _ := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/workspaces/"+ws.ID.String()+"/invites", token,
		map[string]interface{}{"emails": []string{"grace@example.com"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msgs := ts.mailer.SentTo("grace@example.com")
	require.Len(t, msgs, 1)

	// pull the accept link out of the invitation mail
	idx := strings.Index(msgs[0].Text, "Accept: ")
	require.GreaterOrEqual(t, idx, 0)
	link := msgs[0].Text[idx+len("Accept: "):]
	link = strings.TrimSpace(strings.SplitN(link, "\n", 2)[0])
	acceptPath := strings.TrimPrefix(link, "https://tack.test")

	// a brand-new person accepts with credentials
	rec = ts.do(t, http.MethodPost, acceptPath, "", map[string]string{
		"name": "Grace", "password": "longenough",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[invite.AcceptResult](t, rec)
	assert.False(t, res.AlreadyMember)
	require.NotNil(t, res.Workspace)
	assert.True(t, res.Workspace.Members.Contains(res.User.ID))

	// accepting the same token again is a no-op
	rec = ts.do(t, http.MethodPost, acceptPath, "", map[string]string{
		"name": "Grace", "password": "longenough",
	})
	assert.Equal(t, http.StatusAlreadyReported, rec.Code)

	// and grace can now log in and see the workspace
	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "grace@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Tokens auth.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	rec = ts.do(t, http.MethodGet, "/api/workspaces/"+ws.ID.String(), login.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInviteRequiresManageRights(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	_, otherToken := ts.signup(t, "Eve", "eve@example.com")
	ws, _, _ := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/workspaces/"+ws.ID.String()+"/invites", otherToken,
		map[string]interface{}{"emails": []string{"x@example.com"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRejectInvite(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "Ada", "ada@example.com")
	ws, _, _ := ts.buildBoard(t, token)

	rec := ts.do(t, http.MethodPost, "/api/workspaces/"+ws.ID.String()+"/invites", token,
		map[string]interface{}{"emails": []string{"grace@example.com"}})
	require.Equal(t, http.StatusOK, rec.Code)

	msgs := ts.mailer.SentTo("grace@example.com")
	require.Len(t, msgs, 1)
	idx := strings.Index(msgs[0].Text, "Reject: ")
	require.GreaterOrEqual(t, idx, 0)
	link := strings.TrimSpace(strings.SplitN(msgs[0].Text[idx+len("Reject: "):], "\n", 2)[0])
	rejectPath := strings.TrimPrefix(link, "https://tack.test")

	rec = ts.do(t, http.MethodGet, rejectPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rejected")

	// rejection never creates an account
	u, err := ts.store.GetUserByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestInvalidInviteToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/invites/accept/not-a-real-token", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectMemberAdd(t *testing.T) {
	ts := newTestServer(t)
	adaID, token := ts.signup(t, "Ada", "ada@example.com")
	eveID, _ := ts.signup(t, "Eve", "eve@example.com")
	ws, _, _ := ts.buildBoard(t, token)

	path := fmt.Sprintf("/api/workspaces/%s/members", ws.ID)
	rec := ts.do(t, http.MethodPost, path, token, map[string]interface{}{"user_id": eveID})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, path, token, map[string]interface{}{"user_id": eveID})
	assert.Equal(t, http.StatusAlreadyReported, rec.Code)

	// the workspace admin cannot be added to their own member list
	rec = ts.do(t, http.MethodPost, path, token, map[string]interface{}{"user_id": adaID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, path, token, map[string]interface{}{"user_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
