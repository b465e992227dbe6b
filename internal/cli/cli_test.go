package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luftbuch/luftbuch/pkg/types"
)

// testDirs creates isolated config and data directories and disables
// the auto-backup convenience so backup counts stay deterministic.
func testDirs(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir = t.TempDir()
	dataDir = t.TempDir()
	cfg := "auto_backup: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(cfg), 0o644))
	return configDir, dataDir
}

// run executes one CLI invocation against the given directories and
// returns its combined output.
func run(t *testing.T, configDir, dataDir string, args ...string) string {
	t.Helper()
	out, err := runErr(configDir, dataDir, args...)
	require.NoError(t, err, out)
	return out
}

func runErr(configDir, dataDir string, args ...string) (string, error) {
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config-dir", configDir, "--data-dir", dataDir}, args...))
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.Execute()
	return buf.String(), err
}

func TestInit(t *testing.T) {
	configDir, dataDir := testDirs(t)

	out := run(t, configDir, dataDir, "init")
	require.Contains(t, out, "Luftbuch initialized")
	require.Contains(t, out, "schema v3")
	require.FileExists(t, filepath.Join(dataDir, "luftbuch.db"))
}

func TestVersion(t *testing.T) {
	configDir, dataDir := testDirs(t)
	out := run(t, configDir, dataDir, "version")
	require.Contains(t, out, "luftbuch")
	require.Contains(t, out, "schema v3")
}

func TestFullWorkflow(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	// Register an apartment and read back its generated id.
	out := run(t, configDir, dataDir, "--json", "apartment", "add",
		"--name", "Testwohnung", "--address", "Teststraße 1, 12345 Teststadt", "--size", "75.5")
	var apartment types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &apartment))
	require.NotEmpty(t, apartment.ID)
	require.Len(t, apartment.Rooms, len(types.DefaultRooms()))

	// Record two ventilation acts.
	run(t, configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-04-01", "--time", "07:00",
		"--room", "Schlafzimmer", "--type", types.VentilationBurst,
		"--duration", "5", "--temp-before", "18", "--humidity-before", "70",
		"--temp-after", "16.5", "--humidity-after", "55")
	run(t, configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-04-02", "--time", "19:15",
		"--room", "Küche", "--room", "Wohnzimmer", "--type", types.VentilationCross,
		"--duration", "12", "--temp-before", "21", "--humidity-before", "60",
		"--notes", "Nach dem Kochen")

	out = run(t, configDir, dataDir, "--json", "entry", "list", "--apartment", apartment.ID)
	var entries []types.VentilationEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, []string{"Küche", "Wohnzimmer"}, entries[1].Rooms)
	require.NotNil(t, entries[0].TempAfter)
	require.InDelta(t, 16.5, *entries[0].TempAfter, 0.001)

	// Date filtering.
	out = run(t, configDir, dataDir, "--json", "entry", "list",
		"--apartment", apartment.ID, "--from", "2025-04-02", "--to", "2025-04-02")
	entries = nil
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "2025-04-02", entries[0].Date)

	// Export, delete an entry, then restore the dataset via replace import.
	exportFile := filepath.Join(t.TempDir(), "export.json")
	run(t, configDir, dataDir, "export", "--format", "json", "--out", exportFile)
	require.FileExists(t, exportFile)

	run(t, configDir, dataDir, "entry", "delete", "1", "--reason", "Tippfehler")
	out = run(t, configDir, dataDir, "--json", "deletionlog", "list")
	var log []types.DeletionLogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	require.Len(t, log, 1)
	require.Equal(t, types.DeletedEntry, log[0].Type)
	require.Equal(t, "Tippfehler", log[0].Reason)

	out = run(t, configDir, dataDir, "import", exportFile, "--mode", "replace")
	require.Contains(t, out, "Imported 2 entries, 1 apartments")

	out = run(t, configDir, dataDir, "--json", "entry", "list", "--apartment", apartment.ID)
	entries = nil
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)

	// The import left a safety backup behind.
	out = run(t, configDir, dataDir, "--json", "backup", "list")
	var backups []types.Backup
	require.NoError(t, json.Unmarshal([]byte(out), &backups))
	require.Len(t, backups, 1)
	require.False(t, backups[0].Automatic)

	// CSV export covers all entries.
	out = run(t, configDir, dataDir, "export", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "ID,Apartment ID"))
}

func TestBackupRestoreWorkflow(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	out := run(t, configDir, dataDir, "--json", "apartment", "add",
		"--name", "Sicherung", "--size", "50")
	var apartment types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &apartment))

	run(t, configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-05-01", "--time", "08:00",
		"--room", "Bad", "--duration", "10", "--temp-before", "20", "--humidity-before", "75")

	out = run(t, configDir, dataDir, "backup", "create")
	require.Contains(t, out, "created")

	run(t, configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-05-02", "--time", "08:00",
		"--room", "Bad", "--duration", "10", "--temp-before", "20", "--humidity-before", "75")

	out = run(t, configDir, dataDir, "--json", "backup", "list")
	var backups []types.Backup
	require.NoError(t, json.Unmarshal([]byte(out), &backups))
	require.Len(t, backups, 1)

	run(t, configDir, dataDir, "backup", "restore", "1")

	out = run(t, configDir, dataDir, "--json", "entry", "list")
	var entries []types.VentilationEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "2025-05-01", entries[0].Date)
}

func TestProtocolCommand(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	out := run(t, configDir, dataDir, "--json", "apartment", "add",
		"--name", "Protokoll", "--size", "66")
	var apartment types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &apartment))

	run(t, configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-06-01", "--time", "12:00",
		"--room", "Wohnzimmer", "--duration", "15", "--temp-before", "22", "--humidity-before", "55")

	pdfFile := filepath.Join(t.TempDir(), "protokoll.pdf")
	out = run(t, configDir, dataDir, "protocol", "--apartment", apartment.ID, "--out", pdfFile)
	require.Contains(t, out, "SHA-256:")

	doc, err := os.ReadFile(pdfFile)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	// Unpaired range flags are rejected before touching the store.
	_, err = runErr(configDir, dataDir, "protocol", "--apartment", apartment.ID, "--from", "2025-06-01")
	require.Error(t, err)
}

func TestRoomManagement(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	out := run(t, configDir, dataDir, "--json", "apartment", "add",
		"--name", "Zimmerpflege", "--size", "44")
	var apartment types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &apartment))

	run(t, configDir, dataDir, "apartment", "room", "add", apartment.ID,
		"--name", "Wintergarten", "--icon", "🌿")

	out = run(t, configDir, dataDir, "--json", "apartment", "show", apartment.ID)
	var updated types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.Len(t, updated.Rooms, len(types.DefaultRooms())+1)

	run(t, configDir, dataDir, "apartment", "room", "update", apartment.ID, updated.Rooms[0].ID,
		"--name", "Essbereich")
	out = run(t, configDir, dataDir, "--json", "apartment", "show", apartment.ID)
	renamed := types.Apartment{}
	require.NoError(t, json.Unmarshal([]byte(out), &renamed))
	require.Equal(t, "Essbereich", renamed.Rooms[0].Name)

	run(t, configDir, dataDir, "apartment", "room", "remove", apartment.ID, updated.Rooms[0].ID)
	run(t, configDir, dataDir, "apartment", "room", "reset", apartment.ID)

	out = run(t, configDir, dataDir, "--json", "apartment", "show", apartment.ID)
	updated = types.Apartment{}
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.Len(t, updated.Rooms, len(types.DefaultRooms()))
}

func TestMetaCommands(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	run(t, configDir, dataDir, "meta", "set", types.MetaChecklistEnabled, "true")
	out := run(t, configDir, dataDir, "meta", "get", types.MetaChecklistEnabled)
	require.Equal(t, "true", strings.TrimSpace(out))

	out = run(t, configDir, dataDir, "meta", "list")
	require.Contains(t, out, types.MetaChecklistEnabled)
}

func TestInvalidEntryRejected(t *testing.T) {
	configDir, dataDir := testDirs(t)
	run(t, configDir, dataDir, "init")

	out := run(t, configDir, dataDir, "--json", "apartment", "add",
		"--name", "Grenzfall", "--size", "30")
	var apartment types.Apartment
	require.NoError(t, json.Unmarshal([]byte(out), &apartment))

	_, err := runErr(configDir, dataDir, "entry", "add",
		"--apartment", apartment.ID, "--date", "2025-06-01", "--time", "12:00",
		"--room", "Bad", "--duration", "61", "--temp-before", "20", "--humidity-before", "50")
	require.Error(t, err)

	out = run(t, configDir, dataDir, "--json", "entry", "list")
	var entries []types.VentilationEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Empty(t, entries)
}
