// Package export renders a finished draft set into a document file.
package export

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNothingToExport is returned when every section body is blank.
var ErrNothingToExport = errors.New("no drafted sections to export")

const fallbackBaseName = "draft"

// Filename derives a safe file name from the contract title: keep
// letters and digits, turn spaces into underscores, drop everything
// else. A title that sanitizes to nothing falls back to "draft".
func Filename(title, extension string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	base := strings.Trim(b.String(), "_")
	if base == "" {
		base = fallbackBaseName
	}
	return base + extension
}
