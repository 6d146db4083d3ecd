package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/planner"
)

func TestProposals(t *testing.T) {
	out := Proposals([]planner.Proposal{
		{OldName: "Scan001.pdf", NewName: "acme-invoice-20240115.pdf", Success: true},
		{OldName: "Broken.pdf", Error: "no content extracted", Success: false},
	})

	assert.Contains(t, out, "Scan001.pdf")
	assert.Contains(t, out, "acme-invoice-20240115.pdf")
	// Failed proposals show the error where the name would be.
	assert.Contains(t, out, "no content extracted")
}

func TestSessionDetail(t *testing.T) {
	session := &ledger.Session{
		SessionID:    "abc-123",
		SessionStart: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		TotalRenames: 2,
		Successful:   1,
		Failed:       1,
		Renames: []ledger.Record{
			{OldName: "a.pdf", NewName: "acme-a.pdf", Success: true},
			{OldName: "b.pdf", NewName: "acme-b.pdf", Success: false, Error: "destination already exists"},
		},
	}

	out := SessionDetail(session)
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "2024-01-15 09:30:00")
	assert.Contains(t, out, "acme-a.pdf")
	assert.Contains(t, out, "destination already exists")
}

func TestUndoReport(t *testing.T) {
	report := &ledger.UndoReport{
		Actions: []ledger.UndoAction{
			{
				Record: ledger.Record{OldName: "a.pdf", NewName: "acme-a.pdf"},
				Status: ledger.UndoPlanned,
			},
			{
				Record: ledger.Record{OldName: "b.pdf", NewName: "acme-b.pdf"},
				Status: ledger.UndoSkippedCollision,
				Detail: "cannot revert, original name exists",
			},
		},
	}

	out := UndoReport(report)
	assert.Contains(t, out, "planned")
	assert.Contains(t, out, "skipped-collision")
	assert.Contains(t, out, "cannot revert, original name exists")
}
