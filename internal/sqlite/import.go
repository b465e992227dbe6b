package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// ReplaceData clears the live entries and apartments collections and
// inserts the given records: apartments by put (insert-or-overwrite by
// id), entries with fresh surrogate ids. The whole replacement commits
// as one transaction.
func (s *Store) ReplaceData(apartments []types.Apartment, entries []types.VentilationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("replacing data: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("replacing data: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM apartments"); err != nil {
		return fmt.Errorf("replacing data: %w", err)
	}
	if err := insertImported(tx, apartments, entries, false); err != nil {
		return err
	}
	return tx.Commit()
}

// MergeData inserts the given records into the live collections:
// apartments only where no existing record shares the id (existing
// apartments win), entries always appended as new records. Entries
// carry no natural dedup key, so merging the same payload twice
// duplicates its entries.
func (s *Store) MergeData(apartments []types.Apartment, entries []types.VentilationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("merging data: %w", err)
	}
	defer tx.Rollback()

	if err := insertImported(tx, apartments, entries, true); err != nil {
		return err
	}
	return tx.Commit()
}

// insertImported writes the given records inside tx. Each record is
// held to the same validation as a direct write; the first failure
// aborts the transaction untouched.
func insertImported(tx *sql.Tx, apartments []types.Apartment, entries []types.VentilationEntry, skipExisting bool) error {
	for i := range apartments {
		a := apartments[i]
		if err := a.Validate(); err != nil {
			return err
		}
		if skipExisting {
			var one int
			err := tx.QueryRow("SELECT 1 FROM apartments WHERE id = ?", a.ID).Scan(&one)
			if err == nil {
				continue
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("checking apartment %s: %w", a.ID, err)
			}
		}
		if err := insertApartment(tx, &a, true); err != nil {
			return err
		}
	}
	for i := range entries {
		e := entries[i]
		if err := e.Validate(); err != nil {
			return err
		}
		if _, err := insertEntry(tx, &e, false); err != nil {
			return err
		}
	}
	return nil
}
