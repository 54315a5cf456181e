package db

import (
	"context"
	"database/sql"
	"fmt"
)

const UniqueNameIndex = "idx_cards_name_nocase"

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT,
	card_type TEXT,
	cost      INTEGER,
	attack    INTEGER,
	health    INTEGER,
	tribe     TEXT,
	text      TEXT
);

CREATE TABLE IF NOT EXISTS card_stock (
	card_id  INTEGER PRIMARY KEY REFERENCES cards(id) ON DELETE CASCADE,
	quantity INTEGER NOT NULL DEFAULT 0,
	price    REAL    NOT NULL DEFAULT 1.0
);
`

// EnsureSchema creates the cards and card_stock tables when missing. Existing
// tables, including ones carrying extra columns, are left as they are.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// EnsureUniqueNameIndex installs the case-insensitive unique index on
// cards.name. It fails if live rows still collide, so it must run after dedupe.
func EnsureUniqueNameIndex(ctx context.Context, db *sql.DB) error {
	query := `CREATE UNIQUE INDEX IF NOT EXISTS ` + UniqueNameIndex + ` ON cards(name COLLATE NOCASE)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", UniqueNameIndex, err)
	}
	return nil
}
