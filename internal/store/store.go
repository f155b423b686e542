// Package store persists the last successfully observed configuration
// snapshot between invocations. Each provider owns exactly one store, and
// each store holds exactly one logical row: the last-seen version token and
// payload. Keeping this local avoids re-running hooks (and paying for remote
// polls) when nothing has changed upstream.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/confwatch/confwatch/internal/fileutil"
)

// ErrInit marks a failure to open or initialize the backing database.
// A provider cannot operate without a well-formed cache, so callers treat
// this as fatal.
var ErrInit = errors.New("snapshot store initialization failed")

// Snapshot is the single durable record: the identity of the last observed
// remote value and the value itself. Version is zero for providers whose
// source has no version token.
type Snapshot struct {
	Version int64
	Data    string
}

// Store is a single-row SQLite-backed snapshot cache. It is not safe for
// concurrent use from multiple processes; scheduler invocations against the
// same state file must not overlap.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot store at path. An empty path yields
// an in-memory store that lives only for the current process, useful for
// one-shot invocations where no change history is wanted.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = fileutil.ExpandTilde(path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInit, dsn, err)
	}

	// The sqlite3 driver opens connections lazily; an in-memory database
	// vanishes when its connection closes, so pin a single connection.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		id      INTEGER PRIMARY KEY,
		version INTEGER NOT NULL,
		data    TEXT NOT NULL
	)`); err != nil {
		return err
	}

	// Seed the row with an empty sentinel on first use so that Load always
	// has something to return.
	_, err := db.Exec(`INSERT INTO snapshot (id, version, data)
		SELECT 0, 0, ''
		WHERE NOT EXISTS (SELECT 1 FROM snapshot WHERE id = 0)`)
	return err
}

// Load reads the snapshot row.
func (s *Store) Load() (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRow(`SELECT version, data FROM snapshot WHERE id = 0`).
		Scan(&snap.Version, &snap.Data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// Save replaces the snapshot row.
func (s *Store) Save(snap Snapshot) error {
	_, err := s.db.Exec(`UPDATE snapshot SET version = ?, data = ? WHERE id = 0`,
		snap.Version, snap.Data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
