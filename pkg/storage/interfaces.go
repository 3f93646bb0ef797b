package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
)

// DeliveryStatus is the outcome of one invitation email
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// DeliveryRecord is the persisted trail of one invitation email, kept for
// operator debugging and purged by the maintenance scheduler
type DeliveryRecord struct {
	ID           uuid.UUID
	ResourceKind board.Kind
	ResourceID   uuid.UUID
	Email        string
	Status       DeliveryStatus
	Reason       string
	CreatedAt    time.Time
}

// Store is the repository consumed by the services. Get* methods return
// (nil, nil) when the row does not exist.
type Store interface {
	// WithTx runs fn inside a transaction. Every write fn performs through
	// the Store it receives is committed together or rolled back together.
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, u *auth.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	UpdateUser(ctx context.Context, u *auth.User) error

	CreateWorkspace(ctx context.Context, ws *board.Workspace) error
	GetWorkspace(ctx context.Context, id uuid.UUID) (*board.Workspace, error)
	ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]board.Workspace, error)
	UpdateWorkspace(ctx context.Context, ws *board.Workspace) error
	DeleteWorkspace(ctx context.Context, id uuid.UUID) error
	// AddWorkspaceMember is idempotent; it reports whether the set changed
	AddWorkspaceMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)

	CreateBoard(ctx context.Context, b *board.Board) error
	GetBoard(ctx context.Context, id uuid.UUID) (*board.Board, error)
	ListBoards(ctx context.Context) ([]board.Board, error)
	UpdateBoard(ctx context.Context, b *board.Board) error
	DeleteBoard(ctx context.Context, id uuid.UUID) error
	AddBoardMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)

	CreateList(ctx context.Context, l *board.List) error
	GetList(ctx context.Context, id uuid.UUID) (*board.List, error)
	// ListsForBoard returns the board's lists ordered by position
	ListsForBoard(ctx context.Context, boardID uuid.UUID) ([]board.List, error)
	UpdateList(ctx context.Context, l *board.List) error
	DeleteList(ctx context.Context, id uuid.UUID) error

	CreateCard(ctx context.Context, c *board.Card) error
	GetCard(ctx context.Context, id uuid.UUID) (*board.Card, error)
	UpdateCard(ctx context.Context, c *board.Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
	AddCardMember(ctx context.Context, cardID, userID uuid.UUID) (bool, error)
	AddAttachment(ctx context.Context, cardID uuid.UUID, att board.Attachment) error

	CreateComment(ctx context.Context, cm *board.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*board.Comment, error)
	UpdateComment(ctx context.Context, cm *board.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error

	RecordDelivery(ctx context.Context, rec *DeliveryRecord) error
	// PurgeDeliveries removes delivery records older than cutoff and
	// returns how many were removed
	PurgeDeliveries(ctx context.Context, cutoff time.Time) (int64, error)
}
