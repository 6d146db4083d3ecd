package ledger

import (
	"fmt"
	"log/slog"
	"os"
)

// UndoStatus classifies the outcome of one record during an undo pass.
type UndoStatus string

const (
	// UndoPlanned marks a record that would be reverted (dry-run only).
	UndoPlanned UndoStatus = "planned"
	// UndoReverted marks a record whose rename was undone.
	UndoReverted UndoStatus = "reverted"
	// UndoSkippedMissing marks a record whose renamed file no longer exists,
	// possibly because it was already reverted.
	UndoSkippedMissing UndoStatus = "skipped-missing"
	// UndoSkippedCollision marks a record whose original name is occupied again.
	UndoSkippedCollision UndoStatus = "skipped-collision"
	// UndoFailed marks a record whose reverse rename failed.
	UndoFailed UndoStatus = "failed"
)

// UndoAction is the per-record outcome of an undo pass.
type UndoAction struct {
	Record Record
	Status UndoStatus
	Detail string
}

// UndoReport summarizes an undo pass over one session.
type UndoReport struct {
	Session     *Session
	SessionPath string
	Actions     []UndoAction
	// Performable counts records that passed both guards.
	Performable int
	// Reverted counts records actually renamed back (zero on dry-run).
	Reverted int
}

// Undo reverses the successful renames of a persisted session. Each record is
// evaluated independently: guard failures and rename errors are reported on
// that record and never block the rest. The session file itself is never
// rewritten.
//
// When execute is false this is a dry-run: guards are checked and the report
// filled in, but no file is touched.
func Undo(sessionPath string, execute bool, logger *slog.Logger) (*UndoReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	session, err := LoadSession(sessionPath)
	if err != nil {
		return nil, err
	}

	report := &UndoReport{
		Session:     session,
		SessionPath: sessionPath,
	}

	for _, record := range session.Renames {
		if !record.Success {
			continue
		}

		action := UndoAction{Record: record}

		// Guard 1: the renamed file must still be where the session left it.
		if _, err := os.Stat(record.NewPath); err != nil {
			action.Status = UndoSkippedMissing
			action.Detail = "file not found, possibly already reverted"
			report.Actions = append(report.Actions, action)
			logger.Warn("Skipping undo, file not found",
				slog.String("path", record.NewPath))
			continue
		}

		// Guard 2: the original name must be free, or the revert would
		// overwrite an unrelated file.
		if _, err := os.Stat(record.OldPath); err == nil {
			action.Status = UndoSkippedCollision
			action.Detail = "cannot revert, original name exists"
			report.Actions = append(report.Actions, action)
			logger.Warn("Skipping undo, name collision",
				slog.String("path", record.OldPath))
			continue
		}

		report.Performable++

		if !execute {
			action.Status = UndoPlanned
			report.Actions = append(report.Actions, action)
			continue
		}

		if err := os.Rename(record.NewPath, record.OldPath); err != nil {
			action.Status = UndoFailed
			action.Detail = err.Error()
			report.Actions = append(report.Actions, action)
			logger.Error("Failed to revert rename",
				slog.String("from", record.NewPath),
				slog.String("to", record.OldPath),
				slog.String("error", err.Error()))
			continue
		}

		action.Status = UndoReverted
		report.Actions = append(report.Actions, action)
		report.Reverted++
		logger.Info("Reverted rename",
			slog.String("from", record.NewName),
			slog.String("to", record.OldName))
	}

	return report, nil
}

// MostRecentSession returns the newest session log path in dir, or an error
// if none exist.
func MostRecentSession(dir string) (string, error) {
	sessions, err := ListSessions(dir)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no rename sessions found")
	}
	return sessions[0], nil
}
