package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads text from the first MaxPDFPages pages of a PDF, stopping
// early once enough characters are collected.
func extractPDF(path string, limits Limits) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if limits.MaxPDFPages > 0 && pages > limits.MaxPDFPages {
		pages = limits.MaxPDFPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Damaged or image-only pages are common; take what the
			// remaining pages give us.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() >= limits.MaxTextLength {
			break
		}
	}

	return sb.String(), nil
}
