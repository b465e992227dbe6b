package sqlite

import (
	"testing"

	"github.com/luftbuch/luftbuch/pkg/types"
)

func TestReplaceDataRejectsInvalidRecords(t *testing.T) {
	s := newTestStore(t)
	apt := seedApartmentWithEntries(t, s, 2)

	bad := testEntry(apt.ID)
	bad.Duration = 999
	bad.HumidityBefore = 250
	err := s.ReplaceData(nil, []types.VentilationEntry{bad})
	if err != types.ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}

	// The rejected transaction must leave the live data untouched.
	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after rejected replace, got %d", len(entries))
	}

	badApt := testApartment("Ohne Fläche")
	badApt.Size = 0
	err = s.MergeData([]types.Apartment{badApt}, nil)
	if err != types.ErrInvalidApartment {
		t.Fatalf("expected ErrInvalidApartment, got %v", err)
	}
	apartments, err := s.Apartments()
	if err != nil {
		t.Fatalf("Apartments failed: %v", err)
	}
	if len(apartments) != 1 {
		t.Errorf("expected 1 apartment after rejected merge, got %d", len(apartments))
	}
}

func TestReplaceData(t *testing.T) {
	s := newTestStore(t)
	seedApartmentWithEntries(t, s, 2)

	incomingApt := testApartment("Importiert")
	incomingEntry := testEntry(incomingApt.ID)
	if err := s.ReplaceData(
		[]types.Apartment{incomingApt},
		[]types.VentilationEntry{incomingEntry},
	); err != nil {
		t.Fatalf("ReplaceData failed: %v", err)
	}

	apartments, err := s.Apartments()
	if err != nil {
		t.Fatalf("Apartments failed: %v", err)
	}
	if len(apartments) != 1 || apartments[0].ID != incomingApt.ID {
		t.Errorf("expected only the imported apartment, got %+v", apartments)
	}
	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ApartmentID != incomingApt.ID {
		t.Errorf("expected only the imported entry, got %+v", entries)
	}
}

func TestMergeDataKeepsExistingApartments(t *testing.T) {
	s := newTestStore(t)
	apt := seedApartmentWithEntries(t, s, 1)

	conflicting := testApartment("Eindringling")
	conflicting.ID = apt.ID
	newcomer := testApartment("Neuzugang")
	incoming := testEntry(apt.ID)

	if err := s.MergeData(
		[]types.Apartment{conflicting, newcomer},
		[]types.VentilationEntry{incoming},
	); err != nil {
		t.Fatalf("MergeData failed: %v", err)
	}

	got, err := s.Apartment(apt.ID)
	if err != nil {
		t.Fatalf("Apartment failed: %v", err)
	}
	if got.Name != "Testwohnung" {
		t.Errorf("existing apartment overwritten by merge: %q", got.Name)
	}
	apartments, err := s.Apartments()
	if err != nil {
		t.Fatalf("Apartments failed: %v", err)
	}
	if len(apartments) != 2 {
		t.Errorf("expected 2 apartments after merge, got %d", len(apartments))
	}
	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after merge, got %d", len(entries))
	}
}

func TestMergeDataDuplicatesEntriesOnReimport(t *testing.T) {
	s := newTestStore(t)
	apt := seedApartmentWithEntries(t, s, 1)
	payload := testEntry(apt.ID)

	for i := 0; i < 2; i++ {
		if err := s.MergeData(nil, []types.VentilationEntry{payload}); err != nil {
			t.Fatalf("MergeData %d failed: %v", i, err)
		}
	}

	entries, err := s.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("entries carry no dedup key; expected 3, got %d", len(entries))
	}
}
