package sqlite

import (
	"testing"

	"github.com/luftbuch/luftbuch/pkg/types"
)

func TestDeletionLogOrderedOldestFirst(t *testing.T) {
	s := newTestStore(t)
	seedApartmentWithEntries(t, s, 3)

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	for _, e := range entries {
		if err := s.DeleteEntry(e.ID, ""); err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}
	}

	log, err := s.DeletionLog()
	if err != nil {
		t.Fatalf("DeletionLog failed: %v", err)
	}
	if len(log) != 3 {
		t.Fatalf("expected 3 tombstones, got %d", len(log))
	}
	for i := 1; i < len(log); i++ {
		if log[i-1].ID >= log[i].ID {
			t.Error("tombstones not ordered oldest first")
		}
	}
}

func TestPruneDeletionLog(t *testing.T) {
	s := newTestStore(t)
	seedApartmentWithEntries(t, s, 2)

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	for _, e := range entries {
		if err := s.DeleteEntry(e.ID, ""); err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}
	}

	// A cutoff in the past removes nothing.
	n, err := s.PruneDeletionLog(1)
	if err != nil {
		t.Fatalf("PruneDeletionLog failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 pruned with past cutoff, got %d", n)
	}

	// A future cutoff removes everything older.
	n, err = s.PruneDeletionLog(types.NowMillis() + 1000)
	if err != nil {
		t.Fatalf("PruneDeletionLog failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}
	log, err := s.DeletionLog()
	if err != nil {
		t.Fatalf("DeletionLog failed: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty log, got %d", len(log))
	}
}

func TestPruneDeletionLogZeroClearsAll(t *testing.T) {
	s := newTestStore(t)
	seedApartmentWithEntries(t, s, 1)
	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if err := s.DeleteEntry(entries[0].ID, ""); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	n, err := s.PruneDeletionLog(0)
	if err != nil {
		t.Fatalf("PruneDeletionLog failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}
}
