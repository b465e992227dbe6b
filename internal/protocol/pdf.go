package protocol

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/luftbuch/luftbuch/pkg/types"
)

const pageMargin = 20.0

// Generate renders the ventilation protocol PDF for one apartment and
// its (possibly date-filtered) entries. It returns the document bytes
// together with the SHA-256 digest embedded on its last page. The
// digest covers the canonical record serialization only; fonts, layout,
// and other rendering bytes do not influence it.
func Generate(apartment types.Apartment, entries []types.VentilationEntry, dateRange *DateRange, now time.Time) ([]byte, string, error) {
	sorted := SortEntries(entries)
	creationDate := FormatCreationDate(now)

	digest, err := Digest(apartment, sorted, creationDate, dateRange)
	if err != nil {
		return nil, "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+15)
	pdf.AliasNbPages("")

	watermark := tr(fmt.Sprintf("Rechtsgültiges Dokument erstellt am %s", strings.Fields(creationDate)[0]))
	pdf.SetFooterFunc(func() {
		_, pageHeight := pdf.GetPageSize()
		pdf.SetY(pageHeight - 15)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 5, watermark, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Seite %d von {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	// Header.
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("Lüftungsprotokoll"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Gemäß DIN 1946-6"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Apartment block.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "Objektadresse:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(apartment.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(apartment.Address), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Wohnungsgröße: %s m²", formatNumber(apartment.Size))), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Covered period.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "Zeitraum des Protokolls:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(periodLine(sorted, dateRange)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Erstellt am: %s", creationDate)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)

	// Entries table.
	if len(sorted) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 6, tr("Lüftungseinträge:"), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		writeEntriesTable(pdf, tr, sorted)
	} else {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("Keine Lüftungseinträge im ausgewählten Zeitraum."), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Legal notice.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Rechtliche Hinweise:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, tr("Dieses Protokoll wurde elektronisch erstellt und ist auch ohne Unterschrift gültig."), "", "L", false)
	pdf.MultiCell(0, 5, tr("Es dient als Nachweis regelmäßigen Lüftens gemäß DIN 1946-6 und kann bei Schimmelproblemen, Versicherungsfällen und Mietstreitigkeiten als Beweismittel dienen."), "", "L", false)
	pdf.Ln(8)

	writeSignatureFields(pdf, tr, pageWidth)

	// Integrity digest.
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(0, 5, tr("Dokument-Integritätsprüfung (SHA-256):"), "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	pdf.MultiCell(0, 4, digest, "", "L", false)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, tr("Dieser Hash-Wert kann zur Überprüfung der Dokumentenintegrität verwendet werden."), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("rendering protocol: %w", err)
	}
	return buf.Bytes(), digest, nil
}

func writeEntriesTable(pdf *fpdf.Fpdf, tr func(string) string, entries []types.VentilationEntry) {
	headers := []string{"Nr.", "Datum", "Uhrzeit", "Räume", "Temperatur", "Luftfeuchte", "Lüftungsart", "Dauer"}
	widths := []float64{10, 22, 17, 28, 26, 26, 26, 15}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(66, 66, 66)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	for i, e := range entries {
		temp := formatNumber(e.TempBefore) + " °C"
		if e.TempAfter != nil {
			temp += " -> " + formatNumber(*e.TempAfter) + " °C"
		}
		humidity := formatNumber(e.HumidityBefore) + " %"
		if e.HumidityAfter != nil {
			humidity += " -> " + formatNumber(*e.HumidityAfter) + " %"
		}
		cells := []string{
			strconv.Itoa(i + 1),
			formatDate(e.Date),
			e.Time,
			strings.Join(e.Rooms, ", "),
			temp,
			humidity,
			e.VentilationType,
			fmt.Sprintf("%d min", e.Duration),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeSignatureFields(pdf *fpdf.Fpdf, tr func(string) string, pageWidth float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Unterschriftenfelder:", "", 1, "L", false, 0, "")
	pdf.Ln(5)

	y := pdf.GetY()
	fieldWidth := (pageWidth - 3*pageMargin) / 2
	rightX := 2*pageMargin + fieldWidth

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageMargin, y, tr("Mieter/Bewohner:"))
	pdf.Line(pageMargin, y+15, pageMargin+fieldWidth, y+15)
	pdf.Text(rightX, y, tr("Vermieter/Eigentümer:"))
	pdf.Line(rightX, y+15, pageWidth-pageMargin, y+15)

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(pageMargin, y+19, "(Unterschrift)")
	pdf.Text(rightX, y+19, "(Unterschrift)")
	pdf.SetY(y + 22)
}

// periodLine describes the covered period: the explicit filter range
// if one was given, otherwise the span of the sorted entries.
func periodLine(sorted []types.VentilationEntry, dateRange *DateRange) string {
	switch {
	case dateRange != nil:
		return formatDate(dateRange.Start) + " - " + formatDate(dateRange.End)
	case len(sorted) > 0:
		return formatDate(sorted[0].Date) + " - " + formatDate(sorted[len(sorted)-1].Date)
	default:
		return "Keine Einträge vorhanden"
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Filename builds the download name for a protocol document.
func Filename(apartment types.Apartment, dateRange *DateRange, now time.Time) string {
	name := filenameSanitizer.ReplaceAllString(apartment.Name, "_")
	if dateRange != nil {
		return fmt.Sprintf("Lueftungsprotokoll_%s_%s_%s.pdf", name, dateRange.Start, dateRange.End)
	}
	return fmt.Sprintf("Lueftungsprotokoll_%s_%s.pdf", name, now.Format("2006-01-02"))
}
