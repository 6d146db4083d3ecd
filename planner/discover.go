package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tidyname/tidyname/config"
)

// Discover finds the files to process under root. Recursive discovery walks
// the whole tree with a doublestar glob; otherwise only direct children are
// considered. Hidden files are skipped when configured, and typeFilter (bare
// extensions like "pdf,docx") narrows the supported extension set further.
func Discover(root string, cfg *config.Config, recursive bool, typeFilter []string) ([]string, error) {
	pattern := "*"
	if recursive {
		pattern = "**/*"
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	allowed := allowedExtensions(cfg, typeFilter)

	var files []string
	for _, match := range matches {
		full := filepath.Join(root, match)

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}

		name := filepath.Base(match)
		if cfg.Processing.SkipHidden && strings.HasPrefix(name, ".") {
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		if !allowed[ext] {
			continue
		}

		files = append(files, full)
	}

	sort.Strings(files)
	return files, nil
}

// allowedExtensions intersects the configured extension set with the
// requested type filter. An empty filter allows every supported extension.
func allowedExtensions(cfg *config.Config, typeFilter []string) map[string]bool {
	filter := make(map[string]bool, len(typeFilter))
	for _, t := range typeFilter {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		filter["."+strings.TrimPrefix(t, ".")] = true
	}

	allowed := make(map[string]bool)
	for _, ext := range cfg.AllExtensions() {
		ext = strings.ToLower(ext)
		if len(filter) > 0 && !filter[ext] {
			continue
		}
		allowed[ext] = true
	}
	return allowed
}
