package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// CreateBackup snapshots the full current contents of entries and
// apartments into a new backup record tagged with the schema version.
// Automatic snapshots beyond the retention cap are pruned immediately,
// oldest first; manual and import-triggered snapshots are never pruned.
func (s *Store) CreateBackup(automatic bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	entries, err := fetchEntries(db, "")
	if err != nil {
		return 0, err
	}
	apartments, err := fetchApartments(db)
	if err != nil {
		return 0, err
	}
	version, err := schemaVersionOf(db)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(types.BackupData{Entries: entries, Apartments: apartments})
	if err != nil {
		return 0, fmt.Errorf("encoding backup: %w", err)
	}

	res, err := db.Exec(`INSERT INTO backups (timestamp, data, version, automatic)
		VALUES (?, ?, ?, ?)`,
		types.NowMillis(), string(data), version, boolToInt(automatic))
	if err != nil {
		return 0, fmt.Errorf("creating backup: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if automatic {
		if err := pruneAutomaticBackups(db); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// pruneAutomaticBackups deletes the oldest automatic snapshots beyond
// the retention cap, ordered by timestamp via the timestamp index.
func pruneAutomaticBackups(x execer) error {
	rows, err := x.Query(`SELECT id FROM backups WHERE automatic = 1 ORDER BY timestamp, id`)
	if err != nil {
		return fmt.Errorf("listing automatic backups: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if len(ids) <= types.MaxAutomaticBackups {
		return nil
	}
	for _, id := range ids[:len(ids)-types.MaxAutomaticBackups] {
		if _, err := x.Exec("DELETE FROM backups WHERE id = ?", id); err != nil {
			return fmt.Errorf("pruning backup %d: %w", id, err)
		}
	}
	return nil
}

func hydrateBackup(row rowScanner) (types.Backup, error) {
	var b types.Backup
	var data string
	var automatic int
	if err := row.Scan(&b.ID, &b.Timestamp, &data, &b.Version, &automatic); err != nil {
		return b, err
	}
	if err := json.Unmarshal([]byte(data), &b.Data); err != nil {
		return b, fmt.Errorf("decoding backup: %w", err)
	}
	b.Automatic = automatic != 0
	return b, nil
}

// Backups returns every snapshot, most recent first.
func (s *Store) Backups() ([]types.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id, timestamp, data, version, automatic
		FROM backups ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying backups: %w", err)
	}
	defer rows.Close()

	var backups []types.Backup
	for rows.Next() {
		b, err := hydrateBackup(rows)
		if err != nil {
			return nil, err
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// Backup returns one snapshot by id. Returns ErrNotFound if absent.
func (s *Store) Backup(id int64) (types.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Backup{}, err
	}
	b, err := hydrateBackup(db.QueryRow(
		"SELECT id, timestamp, data, version, automatic FROM backups WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return b, types.ErrNotFound
	}
	return b, err
}

// RestoreBackup clears the live entries and apartments collections and
// re-inserts every record from the snapshot verbatim, original ids
// included. This is destructive and non-mergeable; it is only ever
// invoked by explicit user action. Returns ErrNotFound if the id does
// not resolve, in which case nothing is changed.
func (s *Store) RestoreBackup(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	b, err := hydrateBackup(db.QueryRow(
		"SELECT id, timestamp, data, version, automatic FROM backups WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM apartments"); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	for i := range b.Data.Apartments {
		if err := insertApartment(tx, &b.Data.Apartments[i], true); err != nil {
			return err
		}
	}
	for i := range b.Data.Entries {
		if _, err := insertEntry(tx, &b.Data.Entries[i], true); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteBackup removes a snapshot. Deleting an absent id is a no-op.
func (s *Store) DeleteBackup(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM backups WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting backup: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
