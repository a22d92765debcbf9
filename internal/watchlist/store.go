// Package watchlist is symbolsd's SQLite-backed store of traded entries.
package watchlist

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"levelboard/internal/model"
)

// Store persists watchlist entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("watchlist open: %w", err)
	}

	// Single writer keeps SQLite happy under WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("watchlist schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS watchlist (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT    NOT NULL,
			entry_price REAL    NOT NULL,
			side        TEXT    NOT NULL CHECK (side IN ('long', 'short'))
		);
		CREATE INDEX IF NOT EXISTS idx_watchlist_symbol ON watchlist(symbol);
	`)
	return err
}

// DB returns the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// List returns every entry ordered by insertion.
func (s *Store) List(ctx context.Context) ([]model.SymbolEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, symbol, entry_price, side FROM watchlist ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("watchlist list: %w", err)
	}
	defer rows.Close()

	entries := []model.SymbolEntry{}
	for rows.Next() {
		var e model.SymbolEntry
		if err := rows.Scan(&e.ID, &e.Symbol, &e.EntryPrice, &e.Side); err != nil {
			return nil, fmt.Errorf("watchlist scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Add inserts an entry and returns it with its assigned id.
func (s *Store) Add(ctx context.Context, symbol string, entryPrice float64, side model.Side) (model.SymbolEntry, error) {
	if symbol == "" {
		return model.SymbolEntry{}, fmt.Errorf("watchlist add: symbol is required")
	}
	if side != model.SideLong && side != model.SideShort {
		return model.SymbolEntry{}, fmt.Errorf("watchlist add: invalid side %q", side)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist (symbol, entry_price, side) VALUES (?, ?, ?)`,
		symbol, entryPrice, string(side))
	if err != nil {
		return model.SymbolEntry{}, fmt.Errorf("watchlist add: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SymbolEntry{}, fmt.Errorf("watchlist add: %w", err)
	}
	return model.SymbolEntry{ID: id, Symbol: symbol, EntryPrice: entryPrice, Side: side}, nil
}

// Remove deletes an entry by id. Missing ids are not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM watchlist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("watchlist remove: %w", err)
	}
	return nil
}
