package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "luftbuch.db"

// Store lifecycle states. Open drives the store through
// unopened → opening → validated; a failed validation detours through
// recreating before either reaching validated or giving up.
type storeState int

const (
	stateUnopened storeState = iota
	stateOpening
	stateValidated
	stateRecreating
)

// Store is the embedded record store. All operations are safe for
// concurrent use from one process; the design assumes no concurrent
// writers from other processes.
type Store struct {
	mu    sync.RWMutex
	state storeState
	path  string
	db    *sql.DB
}

// NewStore returns an unopened store. Call Open before use.
func NewStore() *Store {
	return &Store{}
}

// Open initializes the store under dataDir: it creates the directory
// if needed, opens the database file, applies pending migrations, and
// validates structural integrity. If validation fails, the database
// file is deleted and rebuilt from scratch; if validation fails again
// on the rebuilt file, Open reports ErrStoreCorrupt and the caller
// must treat the environment as faulty.
//
// Returns ErrAlreadyOpen if the store is already open.
func (s *Store) Open(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateValidated {
		return types.ErrAlreadyOpen
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	s.path = filepath.Join(dataDir, dbFileName)

	s.state = stateOpening
	db, problems, err := s.openAndValidate()
	if err != nil {
		s.state = stateUnopened
		return err
	}

	if len(problems) > 0 {
		// The store is structurally inconsistent. Recreation loses data
		// but is only reached when the store is already unusable.
		s.state = stateRecreating
		db.Close()
		if err := s.removeDatabaseFiles(); err != nil {
			s.state = stateUnopened
			return fmt.Errorf("recreate: %w", err)
		}
		db, problems, err = s.openAndValidate()
		if err != nil {
			s.state = stateUnopened
			return err
		}
		if len(problems) > 0 {
			db.Close()
			s.state = stateUnopened
			return fmt.Errorf("%w: %s", types.ErrStoreCorrupt, strings.Join(problems, "; "))
		}
	}

	s.db = db
	s.state = stateValidated
	return nil
}

// openAndValidate opens the database file, runs migrations, and checks
// the structural catalog. It returns the open handle together with any
// validation problems; the caller decides whether to keep the handle.
func (s *Store) openAndValidate() (*sql.DB, []string, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("configure database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	problems, err := validate(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("validate schema: %w", err)
	}
	return db, problems, nil
}

// removeDatabaseFiles deletes the database file and its sidecars.
func (s *Store) removeDatabaseFiles() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close releases the database handle. Idempotent. After Close, all
// operations return ErrStoreClosed until the store is opened again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateValidated {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	s.state = stateUnopened
	return nil
}

// SchemaVersion reports the schema version of the open store.
func (s *Store) SchemaVersion() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != stateValidated {
		return 0, types.ErrStoreClosed
	}
	return schemaVersionOf(s.db)
}

// Path returns the database file location. Empty until Open.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// conn returns the handle if the store is usable. Callers must hold
// s.mu (read or write) for the duration of their statement.
func (s *Store) conn() (*sql.DB, error) {
	if s.state != stateValidated {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}
