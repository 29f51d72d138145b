package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/fumiama/go-docx"
)

const (
	titleSize     = "48"
	headingSize   = "32"
	headingColor  = "2E5A87"
	docxExtension = ".docx"
)

// DocxFilename is Filename with the Word extension applied.
func DocxFilename(title string) string {
	return Filename(title, docxExtension)
}

// WriteDocx renders the drafted sections as a Word document. Sections
// whose body is blank are skipped; if nothing remains the export is
// refused rather than producing an empty file.
func WriteDocx(w io.Writer, title string, sections []domain.ExportSection) error {
	drafted := draftedOnly(sections)
	if len(drafted) == 0 {
		return ErrNothingToExport
	}

	doc := docx.New().WithDefaultTheme()

	titlePara := doc.AddParagraph().Justification("center")
	titlePara.AddText(title).Size(titleSize).Bold()
	doc.AddParagraph()

	for _, section := range drafted {
		heading := doc.AddParagraph()
		heading.AddText(section.Heading).Size(headingSize).Color(headingColor).Bold()

		for _, chunk := range bodyChunks(section.Body) {
			doc.AddParagraph().AddText(chunk)
		}
		doc.AddParagraph()
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx document: %w", err)
	}
	return nil
}

// bodyChunks splits a draft body into paragraphs. A run of one or more
// newlines is one break, and blank paragraphs are dropped.
func bodyChunks(body string) []string {
	lines := strings.FieldsFunc(body, func(r rune) bool { return r == '\n' })
	chunks := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		chunks = append(chunks, line)
	}
	return chunks
}

func draftedOnly(sections []domain.ExportSection) []domain.ExportSection {
	out := make([]domain.ExportSection, 0, len(sections))
	for _, section := range sections {
		if strings.TrimSpace(section.Body) == "" {
			continue
		}
		out = append(out, section)
	}
	return out
}
