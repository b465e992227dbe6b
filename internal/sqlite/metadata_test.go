package sqlite

import (
	"testing"

	"github.com/luftbuch/luftbuch/pkg/types"
)

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Metadata(types.MetaLastAutoBackup); err != types.ErrNotFound {
		t.Errorf("unset key: expected ErrNotFound, got %v", err)
	}

	if err := s.SetMetadata(types.MetaLastAutoBackup, "1700000000000"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	m, err := s.Metadata(types.MetaLastAutoBackup)
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if m.Value != "1700000000000" {
		t.Errorf("unexpected value %q", m.Value)
	}
	if m.UpdatedAt == 0 {
		t.Error("SetMetadata should stamp UpdatedAt")
	}

	// Upsert overwrites in place.
	if err := s.SetMetadata(types.MetaLastAutoBackup, "1800000000000"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	m, err = s.Metadata(types.MetaLastAutoBackup)
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if m.Value != "1800000000000" {
		t.Errorf("upsert did not overwrite, value %q", m.Value)
	}

	all, err := s.AllMetadata()
	if err != nil {
		t.Fatalf("AllMetadata failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 settings record, got %d", len(all))
	}
}

func TestAllMetadataOrderedByKey(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{"zeta", "alpha", "mitte"} {
		if err := s.SetMetadata(key, "x"); err != nil {
			t.Fatalf("SetMetadata failed: %v", err)
		}
	}
	all, err := s.AllMetadata()
	if err != nil {
		t.Fatalf("AllMetadata failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].Key != "alpha" || all[1].Key != "mitte" || all[2].Key != "zeta" {
		t.Errorf("records not ordered by key: %+v", all)
	}
}
