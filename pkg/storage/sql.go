package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
)

// querier is the subset of database/sql satisfied by both *sql.DB and
// *sql.Tx, so the same store methods run inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store over a SQL database
type SQLStore struct {
	db *sql.DB
	q  querier
}

// NewSQLStore creates a store over db
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

// WithTx runs fn inside a transaction. A store that is already
// transactional runs fn on the same transaction.
func (s *SQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&SQLStore{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// --- users ---

// CreateUser inserts a new user
func (s *SQLStore) CreateUser(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id
func (s *SQLStore) GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.getUserWhere(ctx, "id = $1", id)
}

// GetUserByEmail retrieves a user by email
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.getUserWhere(ctx, "email = $1", email)
}

func (s *SQLStore) getUserWhere(ctx context.Context, where string, arg any) (*auth.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE ` + where

	var u auth.User
	err := s.q.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpdateUser updates a user's mutable fields
func (s *SQLStore) UpdateUser(ctx context.Context, u *auth.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4, updated_at = $5
		WHERE id = $6
	`

	u.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.UpdatedAt, u.ID,
	); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// --- workspaces ---

// CreateWorkspace inserts a new workspace along with its member rows
func (s *SQLStore) CreateWorkspace(ctx context.Context, ws *board.Workspace) error {
	labelsJSON, err := json.Marshal(ws.Labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}

	query := `
		INSERT INTO workspaces (id, title, description, workspace_type, visibility, labels, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	ws.CreatedAt = now
	ws.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		ws.ID, ws.Title, ws.Description, ws.Type, ws.Visibility, string(labelsJSON), ws.AdminID, ws.CreatedAt, ws.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	for _, userID := range ws.Members {
		if _, err := s.AddWorkspaceMember(ctx, ws.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

// GetWorkspace retrieves a workspace by id
func (s *SQLStore) GetWorkspace(ctx context.Context, id uuid.UUID) (*board.Workspace, error) {
	query := `
		SELECT id, title, description, workspace_type, visibility, labels, admin_id, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`

	ws, err := scanWorkspace(s.q.QueryRowContext(ctx, query, id))
	if err != nil || ws == nil {
		return ws, err
	}
	ws.Members, err = s.loadMembers(ctx, "workspace_members", "workspace_id", ws.ID)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// ListWorkspacesForUser returns the workspaces the user administers or
// belongs to, newest first
func (s *SQLStore) ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]board.Workspace, error) {
	query := `
		SELECT id, title, description, workspace_type, visibility, labels, admin_id, created_at, updated_at
		FROM workspaces
		WHERE admin_id = $1
		   OR id IN (SELECT workspace_id FROM workspace_members WHERE user_id = $1)
		ORDER BY created_at DESC
	`

	rows, err := s.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var out []board.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	for i := range out {
		out[i].Members, err = s.loadMembers(ctx, "workspace_members", "workspace_id", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateWorkspace updates a workspace's scalar fields. Membership is
// managed through AddWorkspaceMember.
func (s *SQLStore) UpdateWorkspace(ctx context.Context, ws *board.Workspace) error {
	labelsJSON, err := json.Marshal(ws.Labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}

	query := `
		UPDATE workspaces
		SET title = $1, description = $2, workspace_type = $3, visibility = $4, labels = $5, updated_at = $6
		WHERE id = $7
	`

	ws.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query,
		ws.Title, ws.Description, ws.Type, ws.Visibility, string(labelsJSON), ws.UpdatedAt, ws.ID,
	); err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace removes a workspace; boards, lists, cards and comments
// underneath it go with it via foreign keys
func (s *SQLStore) DeleteWorkspace(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// AddWorkspaceMember adds the user to the workspace, reporting whether the
// membership is new
func (s *SQLStore) AddWorkspaceMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	return s.addMember(ctx, "workspace_members", "workspace_id", workspaceID, userID)
}

// --- boards ---

// CreateBoard inserts a new board along with its member rows
func (s *SQLStore) CreateBoard(ctx context.Context, b *board.Board) error {
	query := `
		INSERT INTO boards (id, workspace_id, title, description, visibility, admin_id, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		b.ID, b.WorkspaceID, b.Title, b.Description, b.Visibility, b.AdminID, b.Archived, b.CreatedAt, b.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	for _, userID := range b.Members {
		if _, err := s.AddBoardMember(ctx, b.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

// GetBoard retrieves a board by id
func (s *SQLStore) GetBoard(ctx context.Context, id uuid.UUID) (*board.Board, error) {
	query := `
		SELECT id, workspace_id, title, description, visibility, admin_id, archived, created_at, updated_at
		FROM boards
		WHERE id = $1
	`

	b, err := scanBoard(s.q.QueryRowContext(ctx, query, id))
	if err != nil || b == nil {
		return b, err
	}
	b.Members, err = s.loadMembers(ctx, "board_members", "board_id", b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBoards returns every board, newest first. Access filtering is the
// caller's concern.
func (s *SQLStore) ListBoards(ctx context.Context) ([]board.Board, error) {
	query := `
		SELECT id, workspace_id, title, description, visibility, admin_id, archived, created_at, updated_at
		FROM boards
		ORDER BY created_at DESC
	`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var out []board.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	for i := range out {
		out[i].Members, err = s.loadMembers(ctx, "board_members", "board_id", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateBoard updates a board's scalar fields
func (s *SQLStore) UpdateBoard(ctx context.Context, b *board.Board) error {
	query := `
		UPDATE boards
		SET title = $1, description = $2, visibility = $3, archived = $4, updated_at = $5
		WHERE id = $6
	`

	b.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query,
		b.Title, b.Description, b.Visibility, b.Archived, b.UpdatedAt, b.ID,
	); err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	return nil
}

// DeleteBoard removes a board and everything underneath it
func (s *SQLStore) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

// AddBoardMember adds the user to the board, reporting whether the
// membership is new
func (s *SQLStore) AddBoardMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return s.addMember(ctx, "board_members", "board_id", boardID, userID)
}

// --- lists ---

// CreateList inserts a new list
func (s *SQLStore) CreateList(ctx context.Context, l *board.List) error {
	query := `
		INSERT INTO lists (id, board_id, title, position, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		l.ID, l.BoardID, l.Title, l.Position, l.Archived, l.CreatedAt, l.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// GetList retrieves a list by id
func (s *SQLStore) GetList(ctx context.Context, id uuid.UUID) (*board.List, error) {
	query := `
		SELECT id, board_id, title, position, archived, created_at, updated_at
		FROM lists
		WHERE id = $1
	`

	var l board.List
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.BoardID, &l.Title, &l.Position, &l.Archived, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return &l, nil
}

// ListsForBoard returns the board's lists ordered by position
func (s *SQLStore) ListsForBoard(ctx context.Context, boardID uuid.UUID) ([]board.List, error) {
	query := `
		SELECT id, board_id, title, position, archived, created_at, updated_at
		FROM lists
		WHERE board_id = $1
		ORDER BY position ASC
	`

	rows, err := s.q.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var out []board.List
	for rows.Next() {
		var l board.List
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.Archived, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return out, nil
}

// UpdateList updates a list's title, position and archived flag
func (s *SQLStore) UpdateList(ctx context.Context, l *board.List) error {
	query := `
		UPDATE lists
		SET title = $1, position = $2, archived = $3, updated_at = $4
		WHERE id = $5
	`

	l.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query,
		l.Title, l.Position, l.Archived, l.UpdatedAt, l.ID,
	); err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

// DeleteList removes a list and its cards
func (s *SQLStore) DeleteList(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// --- cards ---

// CreateCard inserts a new card along with its member rows
func (s *SQLStore) CreateCard(ctx context.Context, c *board.Card) error {
	query := `
		INSERT INTO cards (id, list_id, title, description, label, due_date, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		c.ID, c.ListID, c.Title, c.Description, c.Label, nullableTime(c.DueDate), nullableUUID(c.AdminID), c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	for _, userID := range c.Members {
		if _, err := s.AddCardMember(ctx, c.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

// GetCard retrieves a card by id, including members and attachments
func (s *SQLStore) GetCard(ctx context.Context, id uuid.UUID) (*board.Card, error) {
	query := `
		SELECT id, list_id, title, description, label, due_date, admin_id, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	var c board.Card
	var due sql.NullTime
	var adminID uuid.NullUUID

	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ListID, &c.Title, &c.Description, &c.Label, &due, &adminID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if due.Valid {
		t := due.Time
		c.DueDate = &t
	}
	if adminID.Valid {
		aid := adminID.UUID
		c.AdminID = &aid
	}

	c.Members, err = s.loadMembers(ctx, "card_members", "card_id", c.ID)
	if err != nil {
		return nil, err
	}
	c.Attachments, err = s.loadAttachments(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCard updates a card's scalar fields, including its parent list so
// that moving a card between lists is an update
func (s *SQLStore) UpdateCard(ctx context.Context, c *board.Card) error {
	query := `
		UPDATE cards
		SET list_id = $1, title = $2, description = $3, label = $4, due_date = $5, admin_id = $6, updated_at = $7
		WHERE id = $8
	`

	c.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query,
		c.ListID, c.Title, c.Description, c.Label, nullableTime(c.DueDate), nullableUUID(c.AdminID), c.UpdatedAt, c.ID,
	); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

// DeleteCard removes a card, its members, attachments and comments
func (s *SQLStore) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

// AddCardMember adds the user to the card, reporting whether the
// membership is new
func (s *SQLStore) AddCardMember(ctx context.Context, cardID, userID uuid.UUID) (bool, error) {
	return s.addMember(ctx, "card_members", "card_id", cardID, userID)
}

// AddAttachment records an uploaded blob against a card
func (s *SQLStore) AddAttachment(ctx context.Context, cardID uuid.UUID, att board.Attachment) error {
	query := `
		INSERT INTO attachments (id, card_id, url, external_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if att.UploadedAt.IsZero() {
		att.UploadedAt = time.Now().UTC()
	}
	if _, err := s.q.ExecContext(ctx, query,
		uuid.New(), cardID, att.URL, att.ExternalID, att.UploadedAt,
	); err != nil {
		return fmt.Errorf("failed to add attachment: %w", err)
	}
	return nil
}

// --- comments ---

// CreateComment inserts a new comment
func (s *SQLStore) CreateComment(ctx context.Context, cm *board.Comment) error {
	query := `
		INSERT INTO comments (id, card_id, author_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	cm.CreatedAt = now
	cm.UpdatedAt = now

	if _, err := s.q.ExecContext(ctx, query,
		cm.ID, cm.CardID, cm.AuthorID, cm.Text, cm.CreatedAt, cm.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment retrieves a comment by id
func (s *SQLStore) GetComment(ctx context.Context, id uuid.UUID) (*board.Comment, error) {
	query := `
		SELECT id, card_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var cm board.Comment
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&cm.ID, &cm.CardID, &cm.AuthorID, &cm.Text, &cm.CreatedAt, &cm.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &cm, nil
}

// UpdateComment updates a comment's body
func (s *SQLStore) UpdateComment(ctx context.Context, cm *board.Comment) error {
	query := `
		UPDATE comments
		SET body = $1, updated_at = $2
		WHERE id = $3
	`

	cm.UpdatedAt = time.Now().UTC()
	if _, err := s.q.ExecContext(ctx, query, cm.Text, cm.UpdatedAt, cm.ID); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment
func (s *SQLStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// --- invitation deliveries ---

// RecordDelivery persists the outcome of one invitation email
func (s *SQLStore) RecordDelivery(ctx context.Context, rec *DeliveryRecord) error {
	query := `
		INSERT INTO invite_deliveries (id, resource_kind, resource_id, email, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := s.q.ExecContext(ctx, query,
		rec.ID, rec.ResourceKind, rec.ResourceID, rec.Email, rec.Status, rec.Reason, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// PurgeDeliveries removes delivery records older than cutoff
func (s *SQLStore) PurgeDeliveries(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM invite_deliveries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deliveries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge deliveries: %w", err)
	}
	return n, nil
}

// --- helpers ---

func (s *SQLStore) addMember(ctx context.Context, table, idCol string, resourceID, userID uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, table, idCol)

	res, err := s.q.ExecContext(ctx, query, resourceID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) loadMembers(ctx context.Context, table, idCol string, resourceID uuid.UUID) (board.MemberSet, error) {
	query := fmt.Sprintf(`SELECT user_id FROM %s WHERE %s = $1`, table, idCol)

	rows, err := s.q.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	members := board.MemberSet{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return members, nil
}

func (s *SQLStore) loadAttachments(ctx context.Context, cardID uuid.UUID) ([]board.Attachment, error) {
	query := `
		SELECT url, external_id, uploaded_at
		FROM attachments
		WHERE card_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := s.q.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	defer rows.Close()

	var out []board.Attachment
	for rows.Next() {
		var att board.Attachment
		if err := rows.Scan(&att.URL, &att.ExternalID, &att.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		out = append(out, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	return out, nil
}

// scanner matches *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row scanner) (*board.Workspace, error) {
	var ws board.Workspace
	var labelsJSON string

	err := row.Scan(
		&ws.ID, &ws.Title, &ws.Description, &ws.Type, &ws.Visibility, &labelsJSON, &ws.AdminID, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}

	if labelsJSON != "" {
		if err := json.Unmarshal([]byte(labelsJSON), &ws.Labels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
		}
	}
	return &ws, nil
}

func scanBoard(row scanner) (*board.Board, error) {
	var b board.Board

	err := row.Scan(
		&b.ID, &b.WorkspaceID, &b.Title, &b.Description, &b.Visibility, &b.AdminID, &b.Archived, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan board: %w", err)
	}
	return &b, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
