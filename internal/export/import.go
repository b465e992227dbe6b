package export

import (
	"encoding/json"
	"fmt"

	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

// Import modes.
const (
	ModeMerge   = "merge"
	ModeReplace = "replace"
)

// Result reports how many records an import took from the payload.
type Result struct {
	Entries    int `json:"entries"`
	Apartments int `json:"apartments"`
}

// rawEnvelope mirrors Envelope with pointer fields so that a missing
// key is distinguishable from an empty array during shape validation.
type rawEnvelope struct {
	Version    *int  `json:"version"`
	ExportedAt int64 `json:"exportedAt"`
	Data       *struct {
		Entries    *[]types.VentilationEntry `json:"entries"`
		Apartments *[]types.Apartment        `json:"apartments"`
	} `json:"data"`
}

// Import validates the payload shape, creates a manual backup of the
// current state, and then applies the payload under the given mode.
//
// Replace clears both live collections and inserts everything from the
// payload. Merge inserts apartments only where the id is new (existing
// apartments win) and always appends entries.
//
// A malformed payload, or one carrying records that fail boundary
// validation, is rejected before any mutation. If the safety backup
// cannot be created, the import aborts before any destructive step.
func Import(store *sqlite.Store, payload []byte, mode string) (Result, error) {
	if mode != ModeMerge && mode != ModeReplace {
		return Result{}, fmt.Errorf("%w: %q", types.ErrInvalidMode, mode)
	}

	var raw rawEnvelope
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", types.ErrInvalidPayload, err)
	}
	if raw.Version == nil {
		return Result{}, fmt.Errorf("%w: missing version", types.ErrInvalidPayload)
	}
	if raw.Data == nil {
		return Result{}, fmt.Errorf("%w: missing data", types.ErrInvalidPayload)
	}
	if raw.Data.Entries == nil {
		return Result{}, fmt.Errorf("%w: missing data.entries", types.ErrInvalidPayload)
	}
	if raw.Data.Apartments == nil {
		return Result{}, fmt.Errorf("%w: missing data.apartments", types.ErrInvalidPayload)
	}

	apartments := *raw.Data.Apartments
	entries := *raw.Data.Entries

	// Every record must pass the same boundary validation as direct
	// writes; a payload that smuggles an out-of-range value is rejected
	// whole, before the safety backup and before any mutation.
	for i := range apartments {
		if err := apartments[i].Validate(); err != nil {
			return Result{}, fmt.Errorf("%w: apartment %d: %v", types.ErrInvalidPayload, i, err)
		}
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return Result{}, fmt.Errorf("%w: entry %d: %v", types.ErrInvalidPayload, i, err)
		}
	}

	// Safety net: the pre-import snapshot is the only way back once the
	// destructive steps run. It is never automatic, so it is never pruned.
	if _, err := store.CreateBackup(false); err != nil {
		return Result{}, fmt.Errorf("pre-import backup: %w", err)
	}

	var err error
	if mode == ModeReplace {
		err = store.ReplaceData(apartments, entries)
	} else {
		err = store.MergeData(apartments, entries)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{Entries: len(entries), Apartments: len(apartments)}, nil
}
