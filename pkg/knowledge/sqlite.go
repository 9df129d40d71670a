package knowledge

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const knowledgeSchema = `
CREATE TABLE IF NOT EXISTS knowledge (
	position INTEGER PRIMARY KEY,
	intent   TEXT NOT NULL,
	topic    TEXT NOT NULL,
	question TEXT NOT NULL,
	answer   TEXT NOT NULL
);`

// OpenSQLite opens (or creates) a SQLite database holding a knowledge table.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open sqlite: %w", err)
	}
	if _, err := db.Exec(knowledgeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("knowledge: init schema: %w", err)
	}
	return db, nil
}

// SaveSQL replaces the contents of the knowledge table with t, keeping
// record positions as primary keys.
func SaveSQL(ctx context.Context, db *sqlx.DB, t *Table) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("knowledge: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge`); err != nil {
		return fmt.Errorf("knowledge: clear table: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO knowledge (position, intent, topic, question, answer) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("knowledge: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Records() {
		if _, err := stmt.ExecContext(ctx, i, r.Intent, r.Topic, r.Question, r.Answer); err != nil {
			return fmt.Errorf("knowledge: insert %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadSQL reads the knowledge table back in position order.
func LoadSQL(ctx context.Context, db *sqlx.DB) (*Table, error) {
	var rows []Record
	err := db.SelectContext(ctx, &rows,
		`SELECT intent, topic, question, answer FROM knowledge ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("knowledge: select: %w", err)
	}
	return NewTable(rows), nil
}
