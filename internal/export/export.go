// Package export implements the portable-format pipeline: the
// versioned JSON envelope, the flat CSV rendering of entries, and
// JSON import under a merge-or-replace policy.
package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

// Envelope is the versioned export format. Import requires the same
// shape and rejects anything else before touching the store.
type Envelope struct {
	Version    int              `json:"version"`
	ExportedAt int64            `json:"exportedAt"`
	Data       types.BackupData `json:"data"`
}

// csvHeader is the fixed CSV column order.
var csvHeader = []string{
	"ID",
	"Apartment ID",
	"Date",
	"Time",
	"Rooms",
	"Ventilation Type",
	"Duration (min)",
	"Temp Before (°C)",
	"Humidity Before (%)",
	"Temp After (°C)",
	"Humidity After (%)",
	"Notes",
	"Created At",
}

// Export snapshots the full dataset into an envelope.
func Export(store *sqlite.Store) (*Envelope, error) {
	entries, err := store.Entries()
	if err != nil {
		return nil, err
	}
	apartments, err := store.Apartments()
	if err != nil {
		return nil, err
	}
	version, err := store.SchemaVersion()
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Version:    version,
		ExportedAt: types.NowMillis(),
		Data:       types.BackupData{Entries: entries, Apartments: apartments},
	}, nil
}

// ExportJSON renders the envelope as indented JSON.
func ExportJSON(store *sqlite.Store) ([]byte, error) {
	env, err := Export(store)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// ExportCSV flattens all entries into CSV, one row per entry. The
// header row is bare; every data field is double-quoted with embedded
// quotes doubled, so newlines inside notes survive. The output carries
// no trailing newline. The creation timestamp is rendered as an
// ISO-8601 UTC string.
func ExportCSV(store *sqlite.Store) ([]byte, error) {
	entries, err := store.Entries()
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, e := range entries {
		lines = append(lines, csvRow([]string{
			strconv.FormatInt(e.ID, 10),
			e.ApartmentID,
			e.Date,
			e.Time,
			strings.Join(e.Rooms, "; "),
			e.VentilationType,
			strconv.Itoa(e.Duration),
			formatFloat(e.TempBefore),
			formatFloat(e.HumidityBefore),
			formatOptFloat(e.TempAfter),
			formatOptFloat(e.HumidityAfter),
			e.Notes,
			formatCreatedAt(e.CreatedAt),
		}))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// csvRow quotes every field unconditionally, which encoding/csv
// cannot be configured to do.
func csvRow(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatCreatedAt renders epoch milliseconds in the fixed ISO-8601
// shape used across exports; changing it would break CSV consumers.
func formatCreatedAt(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02T15:04:05.000Z")
}

// CSVHeader exposes the fixed column order for consumers and tests.
func CSVHeader() []string {
	header := make([]string, len(csvHeader))
	copy(header, csvHeader)
	return header
}
