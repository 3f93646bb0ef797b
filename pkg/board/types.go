package board

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a resource kind in the hierarchy. The set is closed:
// authorization and the invitation protocol switch on it exhaustively.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindBoard     Kind = "board"
	KindList      Kind = "list"
	KindCard      Kind = "card"
	KindComment   Kind = "comment"
)

// Valid reports whether k names a known resource kind
func (k Kind) Valid() bool {
	switch k {
	case KindWorkspace, KindBoard, KindList, KindCard, KindComment:
		return true
	}
	return false
}

// Visibility of a workspace or board
type Visibility string

const (
	VisibilityPrivate Visibility = "Private"
	VisibilityPublic  Visibility = "Public"
	// VisibilityGlobal applies to boards only
	VisibilityGlobal Visibility = "Global"
)

// WorkspaceType is a descriptive tag chosen at creation
type WorkspaceType string

const (
	WorkspaceTypeSmallBusiness WorkspaceType = "Small Business"
	WorkspaceTypeHumanResource WorkspaceType = "Human Resource"
	WorkspaceTypeMarketing     WorkspaceType = "Marketing"
	WorkspaceTypeOperations    WorkspaceType = "Operations"
	WorkspaceTypeEducation     WorkspaceType = "Education"
	WorkspaceTypeEngineering   WorkspaceType = "Engineering"
	WorkspaceTypeSales         WorkspaceType = "Sales"
	WorkspaceTypeOther         WorkspaceType = "Other"
)

// MemberSet is a set of user ids with idempotent add. The resource admin is
// treated as a member by the authorization engine without appearing here.
type MemberSet []uuid.UUID

// Contains reports whether id is in the set
func (m MemberSet) Contains(id uuid.UUID) bool {
	for _, member := range m {
		if member == id {
			return true
		}
	}
	return false
}

// Add appends id and reports whether the set changed
func (m *MemberSet) Add(id uuid.UUID) bool {
	if m.Contains(id) {
		return false
	}
	*m = append(*m, id)
	return true
}

// Remove deletes id and reports whether the set changed
func (m *MemberSet) Remove(id uuid.UUID) bool {
	for i, member := range *m {
		if member == id {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return true
		}
	}
	return false
}

// Workspace is the root of the hierarchy and owns boards
type Workspace struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Type        WorkspaceType `json:"workspace_type"`
	Visibility  Visibility    `json:"visibility"`
	Labels      []string      `json:"labels,omitempty"`
	AdminID     uuid.UUID     `json:"admin_id"`
	Members     MemberSet     `json:"members"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Board belongs to a workspace and owns lists
type Board struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility"`
	AdminID     uuid.UUID  `json:"admin_id"`
	Members     MemberSet  `json:"members"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// List belongs to a board. Position is dense and zero-based within the
// parent board; ReorderLists maintains that invariant.
type List struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attachment records a blob uploaded for a card: the public URL plus the
// external storage id needed to delete it later
type Attachment struct {
	URL        string    `json:"url"`
	ExternalID string    `json:"external_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Card belongs to a list. AdminID is optional: a card without an owner is
// managed through the board and workspace admins only.
type Card struct {
	ID          uuid.UUID    `json:"id"`
	ListID      uuid.UUID    `json:"list_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Label       string       `json:"label,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	AdminID     *uuid.UUID   `json:"admin_id,omitempty"`
	Members     MemberSet    `json:"members"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Comment belongs to a card
type Comment struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"card_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chain is a resolved ancestor path. Which fields are populated depends on
// the leaf: a card chain carries workspace, board, list and card; a
// workspace chain carries only the workspace. Authorization assumes every
// field its capability needs is non-nil; the resolving service guarantees
// that or fails with not-found first.
type Chain struct {
	Workspace *Workspace
	Board     *Board
	List      *List
	Card      *Card
	Comment   *Comment
}
