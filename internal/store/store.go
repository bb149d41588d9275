package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/mattn/go-sqlite3"
)

// DefaultTable is the table name used when no WithTable option is given.
const DefaultTable = "data"

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// ErrNotFound is returned by GetRaw when no record exists for the key.
var ErrNotFound = errors.New("store: key not found")

// tableNamePattern restricts table names to plain SQL identifiers, since
// the table name is interpolated into statements.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store provides durable storage for encoded key/value records.
// Not safe for concurrent use; see package documentation.
type Store struct {
	db    *sql.DB
	table string
	inTx  bool
}

// Item is one raw record as stored on disk.
type Item struct {
	Key   string
	Value string
}

// Options configure Open.
type Options struct {
	table       string
	busyTimeout time.Duration
	mustExist   bool
}

// Option customizes how a Store is opened.
type Option func(*Options)

// WithTable sets the backing table name. The name must be a plain SQL
// identifier. Default is "data".
func WithTable(name string) Option {
	return func(o *Options) { o.table = name }
}

// WithBusyTimeout sets the SQLite busy_timeout pragma. Default is 5s.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *Options) { o.busyTimeout = d }
}

// WithoutCreate makes Open fail if the database file does not already
// exist, instead of creating it.
func WithoutCreate() Option {
	return func(o *Options) { o.mustExist = true }
}

// Open creates or opens a SQLite database at the given path and ensures
// the key/value table exists. The path ":memory:" opens a private
// in-memory database.
//
// This function is idempotent - safe to call multiple times on the same
// path.
func Open(path string, opts ...Option) (*Store, error) {
	o := Options{table: DefaultTable, busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	if !tableNamePattern.MatchString(o.table) {
		return nil, fmt.Errorf("invalid table name %q", o.table)
	}

	if o.mustExist && path != MemoryPath {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database %q does not exist: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection works. A path that is not writable or a file
	// that is not a SQLite database fails here or during schema setup.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection also
	// guarantees that explicit BEGIN/COMMIT statements pair up on the
	// same handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, o.busyTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db, o.table); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, table: o.table}, nil
}

// Close closes the database connection. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Table returns the backing table name.
func (s *Store) Table() string {
	return s.table
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, busyTimeout time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the key/value table if it doesn't exist.
// This function is idempotent.
func applySchema(db *sql.DB, table string) error {
	schema := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)",
		table,
	)
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// IsConstraint reports whether err is (or wraps) a SQLite constraint
// violation. Under upsert semantics this should not happen; it indicates
// a bug or concurrent external mutation of the backing file.
func IsConstraint(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
