// Package output renders proposals, session listings and undo reports for
// the terminal.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/planner"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// newTable builds a table with the shared look.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Proposals renders the proposed renames of one run.
func Proposals(proposals []planner.Proposal) string {
	t := newTable("ORIGINAL", "PROPOSED", "STATUS")
	for _, p := range proposals {
		status := successStyle.Render("ok")
		proposed := p.NewName
		if !p.Success {
			status = failureStyle.Render("failed")
			proposed = p.Error
		}
		t.Row(p.OldName, proposed, status)
	}
	return t.String()
}

// Sessions renders the persisted session logs, newest first. Sessions that
// cannot be read are listed with their error so a corrupt log is visible
// rather than silently hidden.
func Sessions(paths []string) string {
	t := newTable("#", "STARTED", "TOTAL", "OK", "FAILED", "LOG FILE")
	for i, path := range paths {
		session, err := ledger.LoadSession(path)
		if err != nil {
			t.Row(fmt.Sprintf("%d", i+1), failureStyle.Render("unreadable: "+err.Error()), "", "", "", filepath.Base(path))
			continue
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			session.SessionStart.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", session.TotalRenames),
			fmt.Sprintf("%d", session.Successful),
			fmt.Sprintf("%d", session.Failed),
			filepath.Base(path),
		)
	}
	return t.String()
}

// SessionDetail renders the records of one session.
func SessionDetail(session *ledger.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s\n", session.SessionID)
	fmt.Fprintf(&sb, "Started: %s\n", session.SessionStart.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Total: %d  Successful: %d  Failed: %d\n",
		session.TotalRenames, session.Successful, session.Failed)

	t := newTable("STATUS", "ORIGINAL", "NEW", "ERROR")
	for _, r := range session.Renames {
		status := successStyle.Render("ok")
		if !r.Success {
			status = failureStyle.Render("failed")
		}
		t.Row(status, r.OldName, r.NewName, r.Error)
	}
	sb.WriteString(t.String())
	return sb.String()
}

// UndoReport renders the outcome of an undo pass.
func UndoReport(report *ledger.UndoReport) string {
	t := newTable("STATUS", "CURRENT NAME", "REVERTS TO", "DETAIL")
	for _, action := range report.Actions {
		status := string(action.Status)
		switch action.Status {
		case ledger.UndoReverted, ledger.UndoPlanned:
			status = successStyle.Render(status)
		case ledger.UndoFailed:
			status = failureStyle.Render(status)
		}
		t.Row(status, action.Record.NewName, action.Record.OldName, action.Detail)
	}
	return t.String()
}
