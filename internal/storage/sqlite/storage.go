package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

// Config holds SQLite settings
type Config struct {
	// Path is the database file; ":memory:" keeps everything in process
	Path string
}

// DefaultConfig returns the default SQLite configuration
func DefaultConfig() Config {
	return Config{Path: "nexus.db"}
}

// Storage keeps the profile in a single key/value table, mirroring the
// browser storage layout. Update runs inside one transaction.
type Storage struct {
	// mu serializes writers in this process; sqlite allows a single writer
	mu sync.Mutex
	db *sqlx.DB
}

type entry struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// New opens (creating if needed) the database at cfg.Path
func New(cfg Config) (*Storage, error) {
	db, err := sqlx.Connect("sqlite3", "file:"+cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &Storage{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) createTables() error {
	_, err := s.db.Exec(`create table if not exists kv(
		key   text not null primary key,
		value text not null
	)`)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Load(ctx context.Context) (*model.State, error) {
	var rows []entry
	if err := s.db.SelectContext(ctx, &rows, `select key, value from kv`); err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	return decodeRows(rows)
}

func (s *Storage) Update(ctx context.Context, fn func(state *model.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rows []entry
	if err := tx.SelectContext(ctx, &rows, `select key, value from kv`); err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	state, err := decodeRows(rows)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	values, err := storage.Encode(state)
	if err != nil {
		return err
	}
	for _, key := range storage.Keys() {
		if err := writeValue(ctx, tx, key, values[key]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}
	return nil
}

func writeValue(ctx context.Context, tx *sqlx.Tx, key, value string) error {
	var err error
	if value == "" {
		_, err = tx.ExecContext(ctx, `delete from kv where key = ?`, key)
	} else {
		_, err = tx.NamedExecContext(ctx,
			`insert into kv (key, value) values (:key, :value)
			 on conflict(key) do update set value = excluded.value`,
			entry{Key: key, Value: value})
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func decodeRows(rows []entry) (*model.State, error) {
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	return storage.Decode(values)
}

// rawValue reads one key directly, for tests
func (s *Storage) rawValue(key string) (string, error) {
	var value string
	err := s.db.Get(&value, `select value from kv where key = ?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
