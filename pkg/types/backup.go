package types

// MaxAutomaticBackups caps how many automatic snapshots are retained.
// Manual and import-triggered snapshots are never pruned.
const MaxAutomaticBackups = 10

// BackupData is the embedded full copy of both primary collections at
// snapshot time.
type BackupData struct {
	Entries    []VentilationEntry `json:"entries"`
	Apartments []Apartment        `json:"apartments"`
}

// Backup is a point-in-time full snapshot of the record store. Restore
// replaces the live collections wholesale with the snapshot contents.
type Backup struct {
	ID        int64      `json:"id"`
	Timestamp int64      `json:"timestamp"` // Epoch milliseconds.
	Data      BackupData `json:"data"`
	Version   int        `json:"version"`   // Schema version in effect at snapshot time.
	Automatic bool       `json:"automatic"` // Created by the periodic routine, subject to pruning.
}
