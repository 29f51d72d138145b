package export

import (
	"fmt"
	"io"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/go-pdf/fpdf"
)

const pdfExtension = ".pdf"

// PDFFilename is Filename with the PDF extension applied.
func PDFFilename(title string) string {
	return Filename(title, pdfExtension)
}

// WritePDF renders the drafted sections as a PDF. The skip rule for
// blank sections matches WriteDocx.
func WritePDF(w io.Writer, title string, sections []domain.ExportSection) error {
	drafted := draftedOnly(sections)
	if len(drafted) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, translate(title), "", "C", false)
	pdf.Ln(6)

	for _, section := range drafted {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, translate(section.Heading), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		for _, chunk := range bodyChunks(section.Body) {
			pdf.MultiCell(0, 6, translate(chunk), "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf document: %w", err)
	}
	return nil
}
