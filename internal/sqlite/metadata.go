package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// Metadata returns the settings record for a key.
// Returns ErrNotFound if the key has never been set.
func (s *Store) Metadata(key string) (types.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Metadata{}, err
	}

	var m types.Metadata
	err = db.QueryRow("SELECT key, value, updated_at FROM metadata WHERE key = ?", key).
		Scan(&m.Key, &m.Value, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, types.ErrNotFound
	}
	if err != nil {
		return m, fmt.Errorf("querying metadata %q: %w", key, err)
	}
	return m, nil
}

// SetMetadata upserts a settings key, stamping the update time.
func (s *Store) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, types.NowMillis())
	if err != nil {
		return fmt.Errorf("setting metadata %q: %w", key, err)
	}
	return nil
}

// AllMetadata returns every settings record, ordered by key.
func (s *Store) AllMetadata() ([]types.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT key, value, updated_at FROM metadata ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}
	defer rows.Close()

	var all []types.Metadata
	for rows.Next() {
		var m types.Metadata
		if err := rows.Scan(&m.Key, &m.Value, &m.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, m)
	}
	return all, rows.Err()
}
