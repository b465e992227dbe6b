package types

import "encoding/json"

// Record discriminants for deletion-log tombstones.
const (
	DeletedEntry     = "entry"
	DeletedApartment = "apartment"
)

// DeletionLogEntry is an immutable audit tombstone written before a
// ventilation entry or apartment is physically removed. Data holds a
// verbatim JSON copy of the deleted record. The log is append-only;
// the only permitted mutation is bulk expiry by age via an explicit
// prune operation.
type DeletionLogEntry struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`       // DeletedEntry or DeletedApartment.
	OriginalID string          `json:"originalId"` // The deleted record's id, rendered as a string.
	DeletedAt  int64           `json:"deletedAt"`  // Epoch milliseconds, store-assigned.
	Data       json.RawMessage `json:"data"`       // Full copy of the deleted record.
	Reason     string          `json:"reason,omitempty"`
}
