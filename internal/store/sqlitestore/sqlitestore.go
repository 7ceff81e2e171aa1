package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/crud/internal/model"
)

// SQLite-backed storage. Single file, one table.
// Every call opens its own connection and closes it before returning;
// nothing is pooled or kept between calls.

// DefaultPath is the database file used when nothing else is configured.
const DefaultPath = "items.db"

// ErrDatabase is the one failure category the store reports. Every error
// returned by Store wraps it together with the driver's own error.
var ErrDatabase = errors.New("database operation failed")

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`
	insertSQL = `INSERT INTO items (name) VALUES (?)`
	selectSQL = `SELECT id, name FROM items`
	updateSQL = `UPDATE items SET name = ? WHERE id = ?`
	deleteSQL = `DELETE FROM items WHERE id = ?`
)

// Store issues all SQL against the database file at Path.
type Store struct {
	path string
	log  zerolog.Logger
}

// New returns a Store for the database file at path. Nothing is opened yet.
func New(path string, log zerolog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{
		path: path,
		log:  log.With().Str("component", "store").Str("path", path).Logger(),
	}
}

// Path reports the database file this store writes to.
func (s *Store) Path() string { return s.path }

func (s *Store) open() (*sql.DB, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// fail logs err at the store boundary and wraps it in ErrDatabase.
func (s *Store) fail(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("database operation failed")
	return fmt.Errorf("%s: %w: %w", op, ErrDatabase, err)
}

// exec runs one write statement on a connection scoped to this call.
func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	db, err := s.open()
	if err != nil {
		return s.fail(op, err)
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return s.fail(op, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Debug().Str("op", op).Int64("rows", n).Msg("ok")
	}
	return nil
}

// EnsureSchema creates the items table if it is missing. The database file
// (and its directory) is created on first use. Existing rows are untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.exec(ctx, "ensure schema", schemaSQL)
}

// Create inserts a row named name. The id is assigned by the database;
// callers discover it by listing.
func (s *Store) Create(ctx context.Context, name string) error {
	return s.exec(ctx, "create", insertSQL, name)
}

// Update renames the row with the given id. Unknown ids are a no-op.
func (s *Store) Update(ctx context.Context, id int64, name string) error {
	return s.exec(ctx, "update", updateSQL, name, id)
}

// Delete removes the row with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, "delete", deleteSQL, id)
}

// List returns every row in whatever order SQLite yields them.
// If the scan fails part way, the rows read so far are returned with the error.
func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	items := []model.Item{}

	db, err := s.open()
	if err != nil {
		return items, s.fail("list", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectSQL)
	if err != nil {
		return items, s.fail("list", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it   model.Item
			name sql.NullString
		)
		if err := rows.Scan(&it.ID, &name); err != nil {
			return items, s.fail("list", err)
		}
		it.Name = name.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return items, s.fail("list", err)
	}
	return items, nil
}
