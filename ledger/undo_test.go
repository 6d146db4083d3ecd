package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

// writeSession runs one renamed file through a tracker and returns the
// session log path.
func writeSession(t *testing.T, logDir string, records [][2]string) string {
	t.Helper()

	tracker, err := NewTracker(logDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		tracker.Record(r[0], r[1], true, "")
	}
	path, err := tracker.Save()
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestUndoExecute(t *testing.T) {
	work := t.TempDir()
	oldPath := filepath.Join(work, "a.pdf")
	newPath := filepath.Join(work, "acme-invoice-20240115.pdf")
	touch(t, newPath)

	sessionPath := writeSession(t, t.TempDir(), [][2]string{{oldPath, newPath}})

	report, err := Undo(sessionPath, true, nil)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if report.Reverted != 1 || report.Performable != 1 {
		t.Errorf("report = %d reverted of %d performable, want 1 of 1", report.Reverted, report.Performable)
	}
	if _, err := os.Stat(oldPath); err != nil {
		t.Errorf("original name not restored: %v", err)
	}
	if _, err := os.Stat(newPath); err == nil {
		t.Errorf("renamed file still present after undo")
	}
}

func TestUndoDryRunTouchesNothing(t *testing.T) {
	work := t.TempDir()
	oldPath := filepath.Join(work, "a.pdf")
	newPath := filepath.Join(work, "acme-invoice-20240115.pdf")
	touch(t, newPath)

	sessionPath := writeSession(t, t.TempDir(), [][2]string{{oldPath, newPath}})

	report, err := Undo(sessionPath, false, nil)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if report.Performable != 1 || report.Reverted != 0 {
		t.Errorf("dry run report = %d performable, %d reverted", report.Performable, report.Reverted)
	}
	if len(report.Actions) != 1 || report.Actions[0].Status != UndoPlanned {
		t.Errorf("expected one planned action, got %+v", report.Actions)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
}

func TestUndoGuards(t *testing.T) {
	work := t.TempDir()
	logDir := t.TempDir()

	// Record 1: renamed file has since disappeared.
	missingOld := filepath.Join(work, "gone.pdf")
	missingNew := filepath.Join(work, "gone-renamed.pdf")

	// Record 2: original name occupied again by another file.
	collidingOld := filepath.Join(work, "busy.pdf")
	collidingNew := filepath.Join(work, "busy-renamed.pdf")
	touch(t, collidingNew)
	touch(t, collidingOld)

	// Record 3: clean revert.
	cleanOld := filepath.Join(work, "clean.pdf")
	cleanNew := filepath.Join(work, "clean-renamed.pdf")
	touch(t, cleanNew)

	sessionPath := writeSession(t, logDir, [][2]string{
		{missingOld, missingNew},
		{collidingOld, collidingNew},
		{cleanOld, cleanNew},
	})

	report, err := Undo(sessionPath, true, nil)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if len(report.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(report.Actions))
	}
	if report.Actions[0].Status != UndoSkippedMissing {
		t.Errorf("action 0 status = %s, want %s", report.Actions[0].Status, UndoSkippedMissing)
	}
	if report.Actions[1].Status != UndoSkippedCollision {
		t.Errorf("action 1 status = %s, want %s", report.Actions[1].Status, UndoSkippedCollision)
	}
	if report.Actions[2].Status != UndoReverted {
		t.Errorf("action 2 status = %s, want %s", report.Actions[2].Status, UndoReverted)
	}

	// Guard failures never block the rest of the session.
	if report.Reverted != 1 {
		t.Errorf("reverted = %d, want 1", report.Reverted)
	}
	if _, err := os.Stat(cleanOld); err != nil {
		t.Errorf("clean record not reverted: %v", err)
	}
	// The colliding original is untouched.
	if _, err := os.Stat(collidingNew); err != nil {
		t.Errorf("colliding record should not have moved: %v", err)
	}
}

func TestUndoSkipsFailedRecords(t *testing.T) {
	work := t.TempDir()
	logDir := t.TempDir()

	tracker, err := NewTracker(logDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	tracker.Record(filepath.Join(work, "a.pdf"), filepath.Join(work, "b.pdf"), false, "rename failed")
	sessionPath, err := tracker.Save()
	if err != nil {
		t.Fatal(err)
	}

	report, err := Undo(sessionPath, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Actions) != 0 {
		t.Errorf("failed records must be ignored, got %d actions", len(report.Actions))
	}
}

func TestUndoLeavesSessionFileIntact(t *testing.T) {
	work := t.TempDir()
	newPath := filepath.Join(work, "x-renamed.pdf")
	touch(t, newPath)

	sessionPath := writeSession(t, t.TempDir(), [][2]string{
		{filepath.Join(work, "x.pdf"), newPath},
	})

	before, err := os.ReadFile(sessionPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Undo(sessionPath, true, nil); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(sessionPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("undo rewrote the session log")
	}
}

func TestMostRecentSession(t *testing.T) {
	dir := t.TempDir()
	if _, err := MostRecentSession(dir); err == nil {
		t.Error("expected error when no sessions exist")
	}

	for _, name := range []string{"renames_20240101_000000.json", "renames_20250101_000000.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := MostRecentSession(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "renames_20250101_000000.json" {
		t.Errorf("MostRecentSession() = %s", filepath.Base(got))
	}
}
