package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListSessions returns the paths of all persisted session logs in dir,
// newest first. A missing directory is not an error: it just means no
// execute run has happened yet.
func ListSessions(dir string) ([]string, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, sessionFilePrefix) && strings.HasSuffix(name, sessionFileSuffix) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	// Timestamped names sort lexicographically; reverse for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	return paths, nil
}

// LoadSession reads a persisted session log.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session log %s: %w", filepath.Base(path), err)
	}

	return &session, nil
}
