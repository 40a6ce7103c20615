package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const diskSchema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Disk is a SQLite-backed backend. Entries survive process restarts; the
// database file lives at the caller-specified path. SQLite's transactional
// writes give the required no-torn-reads guarantee.
type Disk struct {
	db   *sql.DB
	path string
}

// NewDisk opens (or creates) the cache database at path.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(diskSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	return &Disk{db: db, path: path}, nil
}

// Get returns the stored bytes for key, or ErrCacheMiss.
func (d *Disk) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := d.db.QueryRowContext(ctx, `SELECT data FROM responses WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache select: %w", err)
	}
	return data, nil
}

// Put stores data under key, overwriting any prior entry.
func (d *Disk) Put(ctx context.Context, key string, data []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO responses (key, data) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, created_at = CURRENT_TIMESTAMP`,
		key, data)
	if err != nil {
		return fmt.Errorf("cache upsert: %w", err)
	}
	return nil
}

// Close closes the database.
func (d *Disk) Close() error {
	return d.db.Close()
}

// Path returns the database file location.
func (d *Disk) Path() string {
	return d.path
}
