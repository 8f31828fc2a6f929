package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders rosters and enrollment attestations. Attestations use
// the French designations only; the core fonts cannot shape Arabic script.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Attestation describes the fields printed on an enrollment attestation.
type Attestation struct {
	StagiaireName    string
	OfferDesignation string
	Specialite       string
	Etablissement    string
	Statut           string
	EnrolledAt       string
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAttestation produces a one-page enrollment attestation.
func (e *PDFExporter) RenderAttestation(att Attestation) ([]byte, error) {
	if att.StagiaireName == "" || att.OfferDesignation == "" {
		return nil, fmt.Errorf("attestation requires stagiaire and offer")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "ATTESTATION D'INSCRIPTION", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Le stagiaire %s est inscrit a l'offre de formation :", att.StagiaireName),
		"",
		fmt.Sprintf("    %s", att.OfferDesignation),
	}
	if att.Specialite != "" {
		lines = append(lines, fmt.Sprintf("    Specialite : %s", att.Specialite))
	}
	if att.Etablissement != "" {
		lines = append(lines, fmt.Sprintf("    Etablissement : %s", att.Etablissement))
	}
	if att.EnrolledAt != "" {
		lines = append(lines, fmt.Sprintf("    Date d'inscription : %s", att.EnrolledAt))
	}
	if att.Statut != "" {
		lines = append(lines, fmt.Sprintf("    Statut : %s", att.Statut))
	}
	for _, line := range lines {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render attestation: %w", err)
	}
	return buf.Bytes(), nil
}
