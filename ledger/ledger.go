// Package ledger records every attempted rename to a durable, append-only
// session log and supports listing, inspecting, and reversing prior sessions.
// A session file is written exactly once, at the end of an execute run, and
// never mutated afterwards; undo reads it but does not rewrite it.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LogDirName is the per-user directory holding session logs.
const LogDirName = ".tidyname"

// sessionFilePrefix and sessionFileSuffix frame session log filenames:
// renames_<YYYYMMDD>_<HHMMSS>.json. The timestamp layout sorts
// lexicographically, so newest-first listing is a reverse name sort.
const (
	sessionFilePrefix = "renames_"
	sessionFileSuffix = ".json"
	sessionFileStamp  = "20060102_150405"
)

// Record describes one attempted rename. Paths are absolute so a session can
// be undone from any working directory.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	OldPath   string    `json:"old_path"`
	NewPath   string    `json:"new_path"`
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
	Directory string    `json:"directory"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// Session is the persisted log document for one run.
type Session struct {
	SessionID    string    `json:"session_id"`
	SessionStart time.Time `json:"session_start"`
	TotalRenames int       `json:"total_renames"`
	Successful   int       `json:"successful"`
	Failed       int       `json:"failed"`
	Renames      []Record  `json:"renames"`
}

// Tracker owns the in-memory record sequence for one session and is the sole
// writer of its persisted file. It is not safe for concurrent use; the
// planner drives it from a single goroutine.
type Tracker struct {
	dir       string
	sessionID string
	start     time.Time
	records   []Record
	savedPath string
	logger    *slog.Logger
}

// DefaultDir returns the per-user log directory (~/.tidyname).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, LogDirName), nil
}

// NewTracker creates a tracker writing into dir, creating it if absent.
// An empty dir selects DefaultDir.
func NewTracker(dir string, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &Tracker{
		dir:       dir,
		sessionID: uuid.New().String(),
		start:     time.Now(),
		logger:    logger,
	}, nil
}

// SessionID returns the unique identifier of this session.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Record appends one rename attempt. Relative paths are made absolute so
// undo works regardless of where it is later invoked.
func (t *Tracker) Record(oldPath, newPath string, success bool, errDetail string) {
	absOld, err := filepath.Abs(oldPath)
	if err != nil {
		absOld = oldPath
	}
	absNew, err := filepath.Abs(newPath)
	if err != nil {
		absNew = newPath
	}

	t.records = append(t.records, Record{
		Timestamp: time.Now(),
		OldPath:   absOld,
		NewPath:   absNew,
		OldName:   filepath.Base(oldPath),
		NewName:   filepath.Base(newPath),
		Directory: filepath.Dir(absOld),
		Success:   success,
		Error:     errDetail,
	})
}

// Len returns the number of recorded attempts.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Counts returns the aggregate (total, successful, failed) for this session.
func (t *Tracker) Counts() (total, successful, failed int) {
	for _, r := range t.records {
		if r.Success {
			successful++
		} else {
			failed++
		}
	}
	return len(t.records), successful, failed
}

// Save persists the session to a uniquely timestamped file and returns its
// path. A second call returns the path of the first save without rewriting;
// sessions are immutable once flushed.
func (t *Tracker) Save() (string, error) {
	if t.savedPath != "" {
		return t.savedPath, nil
	}

	total, successful, failed := t.Counts()
	session := Session{
		SessionID:    t.sessionID,
		SessionStart: t.start,
		TotalRenames: total,
		Successful:   successful,
		Failed:       failed,
		Renames:      t.records,
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	name := sessionFilePrefix + t.start.Format(sessionFileStamp) + sessionFileSuffix
	path := filepath.Join(t.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write session log: %w", err)
	}

	t.savedPath = path
	t.logger.Info("Session log saved",
		slog.String("path", path),
		slog.Int("total", total),
		slog.Int("successful", successful),
		slog.Int("failed", failed))

	return path, nil
}
