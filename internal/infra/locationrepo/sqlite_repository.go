package locationrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/yanqian/surf-forecast/internal/domain/location"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	parent_id INTEGER,
	coast_id INTEGER,
	latitude REAL,
	longitude REAL,
	orientation INTEGER,
	active INTEGER NOT NULL DEFAULT 1,
	map_name TEXT,
	map_updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_locations_parent ON locations(parent_id);
`

// SQLiteRepository is a file-backed location snapshot for single-node deployments.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create locations schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// ListAll returns every location ordered by id.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]location.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []location.Location
	for rows.Next() {
		rec, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReplaceAll overwrites the snapshot with records in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []location.Location) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO locations (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, locationArgs(rec)...); err != nil {
			return fmt.Errorf("insert location %d: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}
