// Package extract produces bounded representative text from supported
// document formats. Extraction backends are registered in a capability table
// keyed by file extension; asking for an extension with no registered
// capability yields a typed ErrUnsupportedFormat rather than a silent empty
// result.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tidyname/tidyname/config"
)

// ErrUnsupportedFormat is returned when no extraction capability exists for a
// file's extension. Callers treat it as a per-file skip, not a failure.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Limits bounds how much content a backend may produce.
type Limits struct {
	// MaxTextLength caps the characters returned by Extract.
	MaxTextLength int
	// MaxPDFPages caps how many PDF pages are read.
	MaxPDFPages int
}

// strategyFunc extracts text from one file format.
type strategyFunc func(path string, limits Limits) (string, error)

// Extractor maps file extensions to extraction strategies.
type Extractor struct {
	limits     Limits
	strategies map[string]strategyFunc
	logger     *slog.Logger
}

// New creates an Extractor with all built-in capabilities registered.
func New(cfg config.ExtractionConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		limits: Limits{
			MaxTextLength: cfg.MaxTextLength,
			MaxPDFPages:   cfg.MaxPDFPages,
		},
		strategies: map[string]strategyFunc{
			".pdf":  extractPDF,
			".docx": extractDOCX,
			".pptx": extractPPTX,
			".xlsx": extractSpreadsheet,
			".html": extractHTML,
			".htm":  extractHTML,
			".txt":  extractPlainText,
			".md":   extractPlainText,
			".csv":  extractPlainText,
			".srt":  extractPlainText,
			// Legacy binary formats (.doc, .ppt, .xls) have no capability
			// here; they surface as ErrUnsupportedFormat.
		},
		logger: logger,
	}
}

// Supports reports whether a capability is registered for the extension
// (including the dot).
func (e *Extractor) Supports(ext string) bool {
	_, ok := e.strategies[strings.ToLower(ext)]
	return ok
}

// Extract produces up to MaxTextLength characters of representative text for
// the file. It returns ErrUnsupportedFormat (wrapped) when no capability
// covers the file's extension.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	strategy, ok := e.strategies[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	text, err := strategy(path, e.limits)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	text = strings.TrimSpace(text)
	if len(text) > e.limits.MaxTextLength {
		text = text[:e.limits.MaxTextLength]
	}

	e.logger.Debug("Extracted content",
		slog.String("file", filepath.Base(path)),
		slog.Int("chars", len(text)))

	return text, nil
}
