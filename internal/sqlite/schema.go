// Package sqlite implements the luftbuch persistence core: the
// embedded-database store lifecycle, the versioned schema with its
// migration and validation procedure, CRUD over the five collections,
// and the backup/restore engine.
package sqlite

// DDL for the version 1 collections. The entries table originally
// carried a scalar room column; version 3 replaces it with a JSON list.
const (
	createEntriesV1 = `CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    apartment_id TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    room TEXT NOT NULL DEFAULT '',
    ventilation_type TEXT NOT NULL,
    duration INTEGER NOT NULL,
    temp_before REAL NOT NULL,
    humidity_before REAL NOT NULL,
    temp_after REAL,
    humidity_after REAL,
    notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);`

	createApartmentsV1 = `CREATE TABLE IF NOT EXISTS apartments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    size REAL NOT NULL,
    created_at INTEGER NOT NULL
);`

	idxEntriesApartment = `CREATE INDEX IF NOT EXISTS idx_entries_apartment ON entries(apartment_id);`
	idxEntriesDate      = `CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);`
)

// DDL for the version 2 collections: deletion audit log, backup
// snapshots, and key-value metadata.
const (
	createDeletionLog = `CREATE TABLE IF NOT EXISTS deletion_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    original_id TEXT NOT NULL,
    deleted_at INTEGER NOT NULL,
    data TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT ''
);`

	createBackups = `CREATE TABLE IF NOT EXISTS backups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,
    data TEXT NOT NULL,
    version INTEGER NOT NULL,
    automatic INTEGER NOT NULL
);`

	createMetadata = `CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);`

	idxDeletionLogType      = `CREATE INDEX IF NOT EXISTS idx_deletion_log_type ON deletion_log(type);`
	idxDeletionLogDeletedAt = `CREATE INDEX IF NOT EXISTS idx_deletion_log_deleted_at ON deletion_log(deleted_at);`
	idxBackupsTimestamp     = `CREATE INDEX IF NOT EXISTS idx_backups_timestamp ON backups(timestamp);`
)

// expectedTables and expectedIndexes form the structural catalog the
// post-open validator checks against sqlite_master. A validation
// failure triggers destructive recreation of the database file.
var expectedTables = []string{
	"entries",
	"apartments",
	"deletion_log",
	"backups",
	"metadata",
}

// expectedIndexes maps index name to the table it must belong to.
var expectedIndexes = map[string]string{
	"idx_entries_apartment":       "entries",
	"idx_entries_date":            "entries",
	"idx_deletion_log_type":       "deletion_log",
	"idx_deletion_log_deleted_at": "deletion_log",
	"idx_backups_timestamp":       "backups",
}
