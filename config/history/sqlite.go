package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const historySchema = `
CREATE TABLE IF NOT EXISTS prompt_history (
	id        INTEGER PRIMARY KEY,
	class     TEXT NOT NULL,
	entry     TEXT NOT NULL,
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_class_id ON prompt_history(class, id DESC);
`

// maxEntries is how many entries each class retains.
const maxEntries = 100

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs the
// prompt_history schema, and returns a ready-to-use store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db for prompt history: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run prompt history schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add records entry for class. Duplicates move to the front and each
// class is pruned to its retention limit. Add is synchronous and safe
// to call from the bubbletea Update goroutine.
func (s *SQLiteStore) Add(class Class, entry string) {
	if entry == "" {
		return
	}

	_, _ = s.db.Exec(`DELETE FROM prompt_history WHERE class = ? AND entry = ?`,
		string(class), entry)
	_, _ = s.db.Exec(`INSERT INTO prompt_history (class, entry, timestamp) VALUES (?, ?, ?)`,
		string(class), entry, time.Now().UTC().Format(time.RFC3339Nano))
	_, _ = s.db.Exec(`
		DELETE FROM prompt_history
		WHERE class = ? AND id NOT IN (
			SELECT id FROM prompt_history WHERE class = ? ORDER BY id DESC LIMIT ?
		)`,
		string(class), string(class), maxEntries)
}

// List returns up to limit entries for class, oldest first.
func (s *SQLiteStore) List(class Class, limit int) ([]string, error) {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	rows, err := s.db.Query(`
		SELECT entry FROM prompt_history
		WHERE class = ?
		ORDER BY id DESC LIMIT ?`,
		string(class), limit)
	if err != nil {
		return nil, fmt.Errorf("query prompt history: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan prompt history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt history: %w", err)
	}

	// The query walks newest-first; recall wants oldest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
