package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

const apartmentColumns = `id, name, address, size, rooms, created_at`

// AddApartment validates and inserts an apartment. The caller supplies
// the stable id (see types.NewApartmentID); the string key constraint
// rejects duplicates. Apartments without rooms get the default set.
func (s *Store) AddApartment(a *types.Apartment) error {
	if len(a.Rooms) == 0 {
		a.Rooms = types.DefaultRooms()
	}
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	if a.CreatedAt == 0 {
		a.CreatedAt = types.NowMillis()
	}
	return insertApartment(db, a, false)
}

// insertApartment writes one apartment row. With overwrite, an existing
// row with the same id is replaced (the "put" semantics used by restore
// and import).
func insertApartment(x execer, a *types.Apartment, overwrite bool) error {
	rooms, err := json.Marshal(a.Rooms)
	if err != nil {
		return fmt.Errorf("encoding rooms: %w", err)
	}

	verb := "INSERT"
	if overwrite {
		verb = "INSERT OR REPLACE"
	}
	_, err = x.Exec(verb+` INTO apartments (id, name, address, size, rooms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Address, a.Size, string(rooms), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting apartment: %w", err)
	}
	return nil
}

func hydrateApartment(row rowScanner) (types.Apartment, error) {
	var a types.Apartment
	var rooms string
	err := row.Scan(&a.ID, &a.Name, &a.Address, &a.Size, &rooms, &a.CreatedAt)
	if err != nil {
		return a, err
	}
	if err := json.Unmarshal([]byte(rooms), &a.Rooms); err != nil {
		return a, fmt.Errorf("decoding rooms: %w", err)
	}
	return a, nil
}

func fetchApartments(x execer) ([]types.Apartment, error) {
	rows, err := x.Query("SELECT " + apartmentColumns + " FROM apartments ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("querying apartments: %w", err)
	}
	defer rows.Close()

	var apartments []types.Apartment
	for rows.Next() {
		a, err := hydrateApartment(rows)
		if err != nil {
			return nil, err
		}
		apartments = append(apartments, a)
	}
	return apartments, rows.Err()
}

// Apartments returns every apartment, oldest first.
func (s *Store) Apartments() ([]types.Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return fetchApartments(db)
}

// Apartment returns one apartment by id. Returns ErrNotFound if absent.
func (s *Store) Apartment(id string) (types.Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Apartment{}, err
	}
	a, err := hydrateApartment(db.QueryRow(
		"SELECT "+apartmentColumns+" FROM apartments WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return a, types.ErrNotFound
	}
	return a, err
}

// UpdateApartment replaces the stored apartment wholesale with the
// given record. Partial patches are not supported. Returns ErrNotFound
// if no apartment has that id.
func (s *Store) UpdateApartment(a *types.Apartment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	rooms, err := json.Marshal(a.Rooms)
	if err != nil {
		return fmt.Errorf("encoding rooms: %w", err)
	}
	res, err := db.Exec(`UPDATE apartments SET name = ?, address = ?, size = ?, rooms = ?, created_at = ?
		WHERE id = ?`,
		a.Name, a.Address, a.Size, string(rooms), a.CreatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("updating apartment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteApartment removes an apartment after logging a tombstone.
// Ventilation entries referencing the apartment are intentionally kept:
// historical entries remain valid evidence. Deleting an absent id is a
// no-op.
func (s *Store) DeleteApartment(id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("deleting apartment: %w", err)
	}
	defer tx.Rollback()

	a, err := hydrateApartment(tx.QueryRow(
		"SELECT "+apartmentColumns+" FROM apartments WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting apartment: %w", err)
	}

	if err := appendTombstone(tx, types.DeletedApartment, id, a, reason); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM apartments WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting apartment: %w", err)
	}
	return tx.Commit()
}
