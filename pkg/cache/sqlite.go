package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache stores entries in a single SQLite database file.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens or creates the database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite cache: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}

// Get retrieves a value, treating expired rows as misses.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM entries WHERE key = ?`, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set inserts or replaces a value.
func (c *SQLiteCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO entries (key, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, data, expiresAt)
	return err
}

// Delete removes a value.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key)
	return err
}

// Clear removes every row.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM entries`)
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var (
	_ Cache   = (*SQLiteCache)(nil)
	_ Clearer = (*SQLiteCache)(nil)
)
