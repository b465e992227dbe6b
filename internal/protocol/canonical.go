// Package protocol renders the DIN 1946-6 ventilation protocol
// document and computes its tamper-evidence digest. The digest is
// taken over a canonical serialization of the underlying records, not
// over the rendered bytes, so any third party holding the same records
// can recompute and confirm it.
package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// DateRange is the optional filter a protocol covers.
type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD, inclusive.
	End   string `json:"end"`   // YYYY-MM-DD, inclusive.
}

// canonicalDocument fixes the serialization field order and inclusion
// set of the digest input. Any change here breaks reproducibility of
// previously issued digests and must bump the protocol version.
type canonicalDocument struct {
	Apartment    types.Apartment          `json:"apartment"`
	Entries      []types.VentilationEntry `json:"entries"`
	CreationDate string                   `json:"creationDate"`
	DateRange    *DateRange               `json:"dateRange,omitempty"`
}

// SortEntries returns the entries ordered by date, then time,
// ascending. The input is not modified. This is the order both the
// canonical serialization and the rendered table use.
func SortEntries(entries []types.VentilationEntry) []types.VentilationEntry {
	sorted := make([]types.VentilationEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// Canonical serializes the protocol data into its stable byte form:
// the apartment, the entries sorted by (date, time), the human-readable
// creation timestamp, and the optional date-range filter, with fixed
// field order throughout. Rendering-specific bytes never enter here.
func Canonical(apartment types.Apartment, entries []types.VentilationEntry, creationDate string, dateRange *DateRange) ([]byte, error) {
	doc := canonicalDocument{
		Apartment:    apartment,
		Entries:      SortEntries(entries),
		CreationDate: creationDate,
		DateRange:    dateRange,
	}
	return json.Marshal(doc)
}

// Digest computes the SHA-256 digest over the canonical serialization
// and renders it as lowercase hex. Two invocations over identical
// records yield the identical digest.
func Digest(apartment types.Apartment, entries []types.VentilationEntry, creationDate string, dateRange *DateRange) (string, error) {
	canonical, err := Canonical(apartment, entries, creationDate, dateRange)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// FormatCreationDate renders the protocol creation timestamp the way
// it appears in the document header and in the canonical serialization.
func FormatCreationDate(t time.Time) string {
	return t.Format("02.01.2006 15:04:05")
}

// formatDate turns YYYY-MM-DD into the German DD.MM.YYYY display form.
func formatDate(date string) string {
	if len(date) != 10 {
		return date
	}
	return date[8:10] + "." + date[5:7] + "." + date[0:4]
}
