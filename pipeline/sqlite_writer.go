package pipeline

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-game-deals/models"
	_ "modernc.org/sqlite"
)

const gamesSchema = `
CREATE TABLE IF NOT EXISTS games (
	name          TEXT PRIMARY KEY,
	g2a_price     REAL    NOT NULL,
	g2a_sale      INTEGER NOT NULL,
	g2a_link      TEXT    NOT NULL,
	kinguin_price REAL    NOT NULL,
	kinguin_sale  INTEGER NOT NULL,
	kinguin_link  TEXT    NOT NULL,
	cdkeys_price  REAL    NOT NULL,
	cdkeys_sale   INTEGER NOT NULL,
	cdkeys_link   TEXT    NOT NULL
)`

const insertGame = `
INSERT OR REPLACE INTO games (
	name,
	g2a_price, g2a_sale, g2a_link,
	kinguin_price, kinguin_sale, kinguin_link,
	cdkeys_price, cdkeys_sale, cdkeys_link
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteWriter stores records in a games table, one row per title.
type SQLiteWriter struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteWriter opens or creates the database at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := conn.Exec(gamesSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}

	return &SQLiteWriter{conn: conn, path: path}, nil
}

// Write inserts a batch in one transaction.
func (sw *SQLiteWriter) Write(records []*models.GameRecord) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	tx, err := sw.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin sqlite tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(insertGame)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.Name,
			r.G2APrice, r.G2ASale, r.G2ALink,
			r.KinguinPrice, r.KinguinSale, r.KinguinLink,
			r.CDKeysPrice, r.CDKeysSale, r.CDKeysLink,
		); err != nil {
			return fmt.Errorf("insert game %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite tx: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (sw *SQLiteWriter) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.conn.Close()
}

// Validate checks that the games table is readable.
func (sw *SQLiteWriter) Validate() error {
	var n int
	if err := sw.conn.QueryRow("SELECT COUNT(*) FROM games").Scan(&n); err != nil {
		return fmt.Errorf("count games: %w", err)
	}
	return nil
}
