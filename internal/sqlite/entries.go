package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// execer is satisfied by both *sql.DB and *sql.Tx so insert helpers can
// serve ordinary writes and transactional restore/import paths alike.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// rowScanner abstracts sql.Row and sql.Rows for hydrate helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

const entryColumns = `id, apartment_id, date, time, rooms, ventilation_type, duration,
	temp_before, humidity_before, temp_after, humidity_after, notes, created_at`

// AddEntry validates and inserts a ventilation entry, assigning the
// surrogate id and creation timestamp. Entries are immutable once
// inserted; there is no update operation.
func (s *Store) AddEntry(e *types.VentilationEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	e.CreatedAt = types.NowMillis()
	id, err := insertEntry(db, e, false)
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

// insertEntry writes one entry row. With preserveID, the given surrogate
// id is kept (restore and replace-import re-insert snapshot records
// verbatim); otherwise the store assigns the next id.
func insertEntry(x execer, e *types.VentilationEntry, preserveID bool) (int64, error) {
	rooms, err := json.Marshal(e.Rooms)
	if err != nil {
		return 0, fmt.Errorf("encoding rooms: %w", err)
	}

	if preserveID {
		_, err := x.Exec(`INSERT INTO entries (id, apartment_id, date, time, rooms, ventilation_type,
			duration, temp_before, humidity_before, temp_after, humidity_after, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ApartmentID, e.Date, e.Time, string(rooms), e.VentilationType,
			e.Duration, e.TempBefore, e.HumidityBefore, e.TempAfter, e.HumidityAfter, e.Notes, e.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting entry: %w", err)
		}
		return e.ID, nil
	}

	res, err := x.Exec(`INSERT INTO entries (apartment_id, date, time, rooms, ventilation_type,
		duration, temp_before, humidity_before, temp_after, humidity_after, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ApartmentID, e.Date, e.Time, string(rooms), e.VentilationType,
		e.Duration, e.TempBefore, e.HumidityBefore, e.TempAfter, e.HumidityAfter, e.Notes, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	return res.LastInsertId()
}

func hydrateEntry(row rowScanner) (types.VentilationEntry, error) {
	var e types.VentilationEntry
	var rooms string
	err := row.Scan(&e.ID, &e.ApartmentID, &e.Date, &e.Time, &rooms, &e.VentilationType,
		&e.Duration, &e.TempBefore, &e.HumidityBefore, &e.TempAfter, &e.HumidityAfter,
		&e.Notes, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal([]byte(rooms), &e.Rooms); err != nil {
		return e, fmt.Errorf("decoding rooms: %w", err)
	}
	return e, nil
}

func fetchEntries(x execer, where string, args ...any) ([]types.VentilationEntry, error) {
	query := "SELECT " + entryColumns + " FROM entries"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"

	rows, err := x.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []types.VentilationEntry
	for rows.Next() {
		e, err := hydrateEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Entries returns every ventilation entry in insertion order.
func (s *Store) Entries() ([]types.VentilationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return fetchEntries(db, "")
}

// Entry returns one entry by id. Returns ErrNotFound if absent.
func (s *Store) Entry(id int64) (types.VentilationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.VentilationEntry{}, err
	}
	e, err := hydrateEntry(db.QueryRow(
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return e, types.ErrNotFound
	}
	return e, err
}

// EntriesByApartment returns the entries referencing one apartment,
// served by the apartment index.
func (s *Store) EntriesByApartment(apartmentID string) ([]types.VentilationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return fetchEntries(db, "apartment_id = ?", apartmentID)
}

// EntriesByDateRange returns entries with from <= date <= to, served by
// the date index. Empty bounds are open.
func (s *Store) EntriesByDateRange(apartmentID, from, to string) ([]types.VentilationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	where := "apartment_id = ?"
	args := []any{apartmentID}
	if from != "" {
		where += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		where += " AND date <= ?"
		args = append(args, to)
	}
	return fetchEntries(db, where, args...)
}

// DeleteEntry removes an entry after appending a tombstone with a full
// copy of the record to the deletion log. Tombstone and removal commit
// as one transaction. Deleting an absent id is a no-op, not an error.
func (s *Store) DeleteEntry(id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	defer tx.Rollback()

	e, err := hydrateEntry(tx.QueryRow(
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	if err := appendTombstone(tx, types.DeletedEntry, fmt.Sprintf("%d", id), e, reason); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return tx.Commit()
}
