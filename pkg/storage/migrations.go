package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all storage migrations. The DDL is kept portable
// between PostgreSQL and sqlite: TEXT ids, no serial columns, timestamps
// written by the application rather than the database.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					email TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					role TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			`,
		},
		{
			Version:     2,
			Description: "Create workspaces and workspace_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS workspaces (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					workspace_type TEXT NOT NULL,
					visibility TEXT NOT NULL,
					labels TEXT NOT NULL DEFAULT '[]',
					admin_id TEXT NOT NULL REFERENCES users(id),
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);

				CREATE TABLE IF NOT EXISTS workspace_members (
					workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					PRIMARY KEY (workspace_id, user_id)
				);
			`,
		},
		{
			Version:     3,
			Description: "Create boards and board_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS boards (
					id TEXT PRIMARY KEY,
					workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					visibility TEXT NOT NULL,
					admin_id TEXT NOT NULL REFERENCES users(id),
					archived BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_boards_workspace_id ON boards(workspace_id);

				CREATE TABLE IF NOT EXISTS board_members (
					board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					PRIMARY KEY (board_id, user_id)
				);
			`,
		},
		{
			Version:     4,
			Description: "Create lists table",
			SQL: `
				CREATE TABLE IF NOT EXISTS lists (
					id TEXT PRIMARY KEY,
					board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
					title TEXT NOT NULL,
					position INTEGER NOT NULL,
					archived BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_lists_board_id ON lists(board_id);
			`,
		},
		{
			Version:     5,
			Description: "Create cards, card_members and attachments tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS cards (
					id TEXT PRIMARY KEY,
					list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					label TEXT NOT NULL DEFAULT '',
					due_date TIMESTAMP,
					admin_id TEXT REFERENCES users(id),
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_cards_list_id ON cards(list_id);

				CREATE TABLE IF NOT EXISTS card_members (
					card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					PRIMARY KEY (card_id, user_id)
				);

				CREATE TABLE IF NOT EXISTS attachments (
					id TEXT PRIMARY KEY,
					card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
					url TEXT NOT NULL,
					external_id TEXT NOT NULL,
					uploaded_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_attachments_card_id ON attachments(card_id);
			`,
		},
		{
			Version:     6,
			Description: "Create comments table",
			SQL: `
				CREATE TABLE IF NOT EXISTS comments (
					id TEXT PRIMARY KEY,
					card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
					author_id TEXT NOT NULL REFERENCES users(id),
					body TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_comments_card_id ON comments(card_id);
			`,
		},
		{
			Version:     7,
			Description: "Create invite_deliveries table",
			SQL: `
				CREATE TABLE IF NOT EXISTS invite_deliveries (
					id TEXT PRIMARY KEY,
					resource_kind TEXT NOT NULL,
					resource_id TEXT NOT NULL,
					email TEXT NOT NULL,
					status TEXT NOT NULL,
					reason TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_invite_deliveries_created_at ON invite_deliveries(created_at);
			`,
		},
	}
}

// RunMigrations applies all migrations in order
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, m := range GetMigrations() {
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}
	return nil
}
