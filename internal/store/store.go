// Package store persists the storefront catalog, users, carts, and
// reviews in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness rule is violated, e.g. a
// duplicate user email or a second review by the same user.
var ErrConflict = errors.New("already exists")

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL,
	price        REAL NOT NULL,
	category     TEXT NOT NULL,
	product_type TEXT NOT NULL,
	colors       TEXT NOT NULL DEFAULT '[]',
	model_url    TEXT NOT NULL DEFAULT '',
	images       TEXT NOT NULL DEFAULT '[]',
	stock        INTEGER NOT NULL DEFAULT 0,
	featured     INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category, price);
CREATE INDEX IF NOT EXISTS idx_products_type ON products (product_type, price);
CREATE INDEX IF NOT EXISTS idx_products_featured ON products (featured, created_at DESC);

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS favorites (
	user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
	added_at   INTEGER NOT NULL,
	PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS carts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT,
	session_id TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items (
	id             TEXT PRIMARY KEY,
	cart_id        TEXT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
	product_id     TEXT NOT NULL,
	quantity       INTEGER NOT NULL,
	selected_color TEXT NOT NULL,
	added_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items (cart_id);

CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	user_name  TEXT NOT NULL,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE (product_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews (product_id, created_at DESC);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB

	// now is injectable for tests that assert on timestamps.
	now func() time.Time
}

// Open opens the storefront database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func exists(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
