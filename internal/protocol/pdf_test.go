package protocol

import (
	"bytes"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	apt := protocolApartment()
	entries := protocolEntries()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc, digest, err := Generate(apt, entries, nil, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
	if len(doc) < 1000 {
		t.Errorf("document suspiciously small: %d bytes", len(doc))
	}

	want, err := Digest(apt, SortEntries(entries), FormatCreationDate(now), nil)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if digest != want {
		t.Errorf("reported digest does not match the canonical digest:\ngot  %s\nwant %s", digest, want)
	}
}

func TestGenerateDigestIgnoresRendering(t *testing.T) {
	apt := protocolApartment()
	entries := protocolEntries()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_, first, err := Generate(apt, entries, nil, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	_, second, err := Generate(apt, entries, nil, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first != second {
		t.Error("identical records must yield identical digests")
	}
}

func TestGenerateEmptyEntries(t *testing.T) {
	apt := protocolApartment()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc, digest, err := Generate(apt, nil, nil, now)
	if err != nil {
		t.Fatalf("Generate with no entries failed: %v", err)
	}
	if len(doc) == 0 || digest == "" {
		t.Error("empty protocol should still render with a digest")
	}
}

func TestPeriodLine(t *testing.T) {
	sorted := SortEntries(protocolEntries())

	if got := periodLine(sorted, nil); got != "01.01.2025 - 02.01.2025" {
		t.Errorf("unexpected period from entries: %q", got)
	}
	r := &DateRange{Start: "2024-12-01", End: "2025-02-28"}
	if got := periodLine(sorted, r); got != "01.12.2024 - 28.02.2025" {
		t.Errorf("unexpected period from filter: %q", got)
	}
	if got := periodLine(nil, nil); got != "Keine Einträge vorhanden" {
		t.Errorf("unexpected empty period: %q", got)
	}
}

func TestFilename(t *testing.T) {
	apt := protocolApartment()
	apt.Name = "Wohnung Müller & Söhne (EG)"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Filename(apt, nil, now)
	if got != "Lueftungsprotokoll_Wohnung_M_ller_S_hne_EG__2025-06-01.pdf" {
		t.Errorf("unexpected filename %q", got)
	}

	r := &DateRange{Start: "2025-01-01", End: "2025-03-31"}
	got = Filename(apt, r, now)
	if got != "Lueftungsprotokoll_Wohnung_M_ller_S_hne_EG__2025-01-01_2025-03-31.pdf" {
		t.Errorf("unexpected filename %q", got)
	}
}
