package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/feltops/holdem/holdem"
)

// SQLiteStore persists tables in a single SQLite file. Each table is
// one row holding the full GameState as a JSON blob; the engine's
// serialization contract makes load-mutate-save safe across restarts,
// including mid-hand.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tables (
			id TEXT PRIMARY KEY,
			state BLOB NOT NULL,
			hand_number INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveTable(ctx context.Context, state *holdem.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", state.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tables (id, state, hand_number, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			hand_number = excluded.hand_number,
			updated_at = CURRENT_TIMESTAMP
	`, state.ID, data, state.HandNumber)
	if err != nil {
		return fmt.Errorf("save table %s: %w", state.ID, err)
	}
	return nil
}

func (s *SQLiteStore) LoadTable(ctx context.Context, id string) (*holdem.GameState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT state FROM tables WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", id, err)
	}
	var state holdem.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode table %s: %w", id, err)
	}
	return &state, nil
}

func (s *SQLiteStore) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM tables ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) DeleteTable(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tables WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
