package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// appendTombstone writes a deletion-log record carrying a full JSON
// copy of the record about to be removed. It runs inside the delete
// transaction so the tombstone happens-before the removal.
func appendTombstone(x execer, recordType, originalID string, record any, reason string) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding tombstone: %w", err)
	}
	_, err = x.Exec(`INSERT INTO deletion_log (type, original_id, deleted_at, data, reason)
		VALUES (?, ?, ?, ?, ?)`,
		recordType, originalID, types.NowMillis(), string(data), reason)
	if err != nil {
		return fmt.Errorf("appending tombstone: %w", err)
	}
	return nil
}

// DeletionLog returns every tombstone, oldest first.
func (s *Store) DeletionLog() ([]types.DeletionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id, type, original_id, deleted_at, data, reason
		FROM deletion_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying deletion log: %w", err)
	}
	defer rows.Close()

	var log []types.DeletionLogEntry
	for rows.Next() {
		var d types.DeletionLogEntry
		var data string
		if err := rows.Scan(&d.ID, &d.Type, &d.OriginalID, &d.DeletedAt, &data, &d.Reason); err != nil {
			return nil, fmt.Errorf("scanning tombstone: %w", err)
		}
		d.Data = json.RawMessage(data)
		log = append(log, d)
	}
	return log, rows.Err()
}

// PruneDeletionLog removes tombstones deleted before the cutoff (epoch
// milliseconds), served by the deleted-at index. A zero cutoff clears
// the whole log. This is the only mutation the append-only log permits.
// Returns the number of tombstones removed.
func (s *Store) PruneDeletionLog(olderThan int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var query string
	var args []any
	if olderThan > 0 {
		query = "DELETE FROM deletion_log WHERE deleted_at < ?"
		args = []any{olderThan}
	} else {
		query = "DELETE FROM deletion_log"
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning deletion log: %w", err)
	}
	return res.RowsAffected()
}
