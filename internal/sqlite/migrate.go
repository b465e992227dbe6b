package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// SchemaVersion is the schema version this build of luftbuch expects.
// The on-disk version is carried by the SQLite user_version pragma.
const SchemaVersion = 3

// A migration upgrades the schema from the previous version to Version.
// Structural creates collections, columns, and indexes; Data reshapes
// existing records. Both steps must tolerate re-execution: upgrade
// execution is not guaranteed atomic across the whole sequence, so a
// step may run again after a partial upgrade.
type migration struct {
	Version    int
	Name       string
	Structural func(tx *sql.Tx) error
	Data       func(tx *sql.Tx) error
}

// migrations is the ordered upgrade registry. Append-only.
var migrations = []migration{
	{
		Version:    1,
		Name:       "initial schema",
		Structural: migrateV1Structural,
	},
	{
		Version:    2,
		Name:       "deletion log, backups, metadata",
		Structural: migrateV2Structural,
	},
	{
		Version:    3,
		Name:       "room scalar to rooms list, apartment room sets",
		Structural: migrateV3Structural,
		Data:       migrateV3Data,
	},
}

func migrateV1Structural(tx *sql.Tx) error {
	for _, ddl := range []string{createEntriesV1, createApartmentsV1, idxEntriesApartment, idxEntriesDate} {
		if _, err := tx.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

func migrateV2Structural(tx *sql.Tx) error {
	for _, ddl := range []string{
		createDeletionLog, createBackups, createMetadata,
		idxDeletionLogType, idxDeletionLogDeletedAt, idxBackupsTimestamp,
	} {
		if _, err := tx.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// migrateV3Structural adds the rooms list columns. The old scalar room
// column is kept until the data step has copied it.
func migrateV3Structural(tx *sql.Tx) error {
	hasRooms, err := columnExists(tx, "entries", "rooms")
	if err != nil {
		return err
	}
	if !hasRooms {
		if _, err := tx.Exec(`ALTER TABLE entries ADD COLUMN rooms TEXT NOT NULL DEFAULT '[]'`); err != nil {
			return err
		}
	}
	hasAptRooms, err := columnExists(tx, "apartments", "rooms")
	if err != nil {
		return err
	}
	if !hasAptRooms {
		if _, err := tx.Exec(`ALTER TABLE apartments ADD COLUMN rooms TEXT NOT NULL DEFAULT '[]'`); err != nil {
			return err
		}
	}
	return nil
}

// migrateV3Data wraps each entry's scalar room into a one-element rooms
// list, drops the scalar column, and back-fills apartments that lack a
// room set with the defaults. Re-execution finds nothing left to do.
func migrateV3Data(tx *sql.Tx) error {
	hasRoom, err := columnExists(tx, "entries", "room")
	if err != nil {
		return err
	}
	if hasRoom {
		rows, err := tx.Query(`SELECT id, room FROM entries WHERE rooms = '[]' AND room != ''`)
		if err != nil {
			return err
		}
		type pair struct {
			id   int64
			room string
		}
		var pairs []pair
		for rows.Next() {
			var p pair
			if err := rows.Scan(&p.id, &p.room); err != nil {
				rows.Close()
				return err
			}
			pairs = append(pairs, p)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		for _, p := range pairs {
			list, err := json.Marshal([]string{p.room})
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`UPDATE entries SET rooms = ? WHERE id = ?`, string(list), p.id); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(`ALTER TABLE entries DROP COLUMN room`); err != nil {
			return err
		}
	}

	rows, err := tx.Query(`SELECT id FROM apartments WHERE rooms = '[]' OR rooms = ''`)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
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
	for _, id := range ids {
		defaults, err := json.Marshal(types.DefaultRooms())
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE apartments SET rooms = ? WHERE id = ?`, string(defaults), id); err != nil {
			return err
		}
	}
	return nil
}

// runMigrations applies every migration newer than the stored schema
// version, bumping user_version after each one. Each migration runs in
// its own transaction so a crash leaves a clean prefix applied.
func runMigrations(db *sql.DB) error {
	current, err := schemaVersionOf(db)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration v%d: %w", m.Version, err)
		}
		if err := m.Structural(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d (%s) structural step: %w", m.Version, m.Name, err)
		}
		if m.Data != nil {
			if err := m.Data(tx); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration v%d (%s) data step: %w", m.Version, m.Name, err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d: setting version: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration v%d: %w", m.Version, err)
		}
	}
	return nil
}

// schemaVersionOf reads the user_version pragma.
func schemaVersionOf(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// validate checks structural integrity after open: every expected
// collection and every expected secondary index must exist. It returns
// the list of problems found; an empty list means the store is sound.
func validate(db *sql.DB) ([]string, error) {
	var problems []string

	for _, table := range expectedTables {
		ok, err := objectExists(db, "table", table, "")
		if err != nil {
			return nil, err
		}
		if !ok {
			problems = append(problems, fmt.Sprintf("missing table: %s", table))
		}
	}

	for index, table := range expectedIndexes {
		ok, err := objectExists(db, "index", index, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			problems = append(problems, fmt.Sprintf("missing index: %s on %s", index, table))
		}
	}

	return problems, nil
}

// objectExists checks sqlite_master for a table or index. For indexes,
// tblName constrains which table the index must belong to.
func objectExists(db *sql.DB, kind, name, tblName string) (bool, error) {
	var query string
	var args []any
	if kind == "index" && tblName != "" {
		query = `SELECT 1 FROM sqlite_master WHERE type = 'index' AND name = ? AND tbl_name = ?`
		args = []any{name, tblName}
	} else {
		query = `SELECT 1 FROM sqlite_master WHERE type = ? AND name = ?`
		args = []any{kind, name}
	}
	var one int
	err := db.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// columnExists probes PRAGMA table_info for a column, which keeps the
// ALTER TABLE migration steps re-runnable.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
