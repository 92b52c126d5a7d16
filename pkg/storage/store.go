// Package storage persists duc version history and document metadata in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/logger"
)

const memoryPath = ":memory:"

// Store is a SQLite backed history store. All access goes through a single
// connection, so writers are serialized.
type Store struct {
	db           *sql.DB
	path         string
	log          zerolog.Logger
	busyTimeout  time.Duration
	retryElapsed time.Duration
	schema       constants.SchemaVersion
}

type Option func(s *Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithBusyTimeout sets how long SQLite waits on a lock before reporting
// the database busy.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.busyTimeout = d
	}
}

// WithRetry bounds the total time a busy transaction is retried.
func WithRetry(maxElapsed time.Duration) Option {
	return func(s *Store) {
		s.retryElapsed = maxElapsed
	}
}

// WithSchemaVersion sets the schema revision bootstrap brings the database
// to. It defaults to constants.CurrentSchemaVersion.
func WithSchemaVersion(v constants.SchemaVersion) Option {
	return func(s *Store) {
		s.schema = v
	}
}

// Open opens or creates the database at path and bootstraps its schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(ctx, path, opts)
}

// OpenMemory opens a private in-memory database.
func OpenMemory(ctx context.Context, opts ...Option) (*Store, error) {
	return open(ctx, memoryPath, opts)
}

func open(ctx context.Context, path string, opts []Option) (*Store, error) {
	s := &Store{
		path:         path,
		log:          logger.Nop(),
		busyTimeout:  5 * time.Second,
		retryElapsed: 10 * time.Second,
		schema:       constants.CurrentSchemaVersion(),
	}
	for _, opt := range opts {
		opt(s)
	}

	conn, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	s.db = conn

	if err := s.bootstrap(ctx, s.schema); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("opened history store")
	return s, nil
}

// dsn carries the per-connection pragmas, so they apply to every
// connection the pool opens.
func (s *Store) dsn() string {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", s.path, s.busyTimeout.Milliseconds())
	if s.path != memoryPath {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	return dsn
}

// bootstrap brings the schema to want. A database stamped by a newer
// revision is refused.
func (s *Store) bootstrap(ctx context.Context, want constants.SchemaVersion) error {
	current, err := s.userVersion(ctx)
	if err != nil {
		return &BootstrapError{Supported: want, Err: err}
	}
	found := constants.DecodeSchemaVersion(current)

	switch {
	case current == want.Encode():
		return nil
	case current > want.Encode():
		return &BootstrapError{Found: found, Supported: want}
	}

	s.log.Info().
		Str("from", found.String()).
		Str("to", want.String()).
		Msg("migrating history store schema")
	if err := runMigrations(s.db); err != nil {
		return &BootstrapError{Found: found, Supported: want, Err: err}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", want.Encode())); err != nil {
		return &BootstrapError{Found: found, Supported: want, Err: err}
	}
	return nil
}

func (s *Store) userVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

// SchemaVersion reports the schema revision stamped in the database.
func (s *Store) SchemaVersion(ctx context.Context) (constants.SchemaVersion, error) {
	v, err := s.userVersion(ctx)
	if err != nil {
		return constants.SchemaVersion{}, err
	}
	return constants.DecodeSchemaVersion(v), nil
}

// Path is the database location, or ":memory:".
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}
