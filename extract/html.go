package extract

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"
)

// extractHTML isolates the main article of an HTML document with readability
// and converts its body to markdown, which reads naturally to a text model.
func extractHTML(path string, limits Limits) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: abs}

	article, err := readability.FromReader(f, pageURL)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	body, err := converter.ConvertString(article.Content)
	if err != nil {
		// The markdown conversion is a readability aid, not a requirement;
		// the plain text extraction is still usable.
		body = article.TextContent
	}

	var sb strings.Builder
	if article.Title != "" {
		sb.WriteString(article.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(body)

	return sb.String(), nil
}
