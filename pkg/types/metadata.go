package types

// Well-known metadata keys. Each key is owned by the feature that
// defines it; the store imposes no cross-key invariants.
const (
	MetaLastAutoBackup   = "last-auto-backup"
	MetaChecklistEnabled = "checklist-enabled"
)

// Metadata is one key-value settings record with its own last-updated
// timestamp. Values are stored as strings; callers parse as needed.
type Metadata struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updatedAt"` // Epoch milliseconds.
}
