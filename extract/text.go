package extract

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// extractPlainText reads up to MaxTextLength bytes from a text file.
// Invalid UTF-8 sequences are dropped rather than failing the file.
func extractPlainText(path string, limits Limits) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(limits.MaxTextLength)))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	return strings.ToValidUTF8(string(data), ""), nil
}
