package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidyname/tidyname/config"
	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/llm"
	"github.com/tidyname/tidyname/namer"
)

type fakeAnalyzer struct {
	components llm.Components
	err        error
	textCalls  int
	imageCalls int
	panicOnUse bool
}

func (f *fakeAnalyzer) AnalyzeText(ctx context.Context, content string) (llm.Components, error) {
	f.textCalls++
	if f.panicOnUse {
		panic("analyzer blew up")
	}
	return f.components, f.err
}

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, path string) (llm.Components, error) {
	f.imageCalls++
	if f.panicOnUse {
		panic("analyzer blew up")
	}
	return f.components, f.err
}

type fakeExtractor struct {
	content string
	err     error
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	return f.content, f.err
}

func newTestPlanner(analyzer Analyzer, extractor Extractor) *Planner {
	cfg := config.DefaultConfig()
	return New(cfg, extractor, analyzer, namer.New(cfg.Naming), nil)
}

func TestPlanFile(t *testing.T) {
	analyzer := &fakeAnalyzer{components: llm.Components{
		Company:     "nike",
		Subject:     "invoice",
		Description: "q1 order",
	}}
	extractor := &fakeExtractor{content: "Invoice from Nike for Q1"}
	pl := newTestPlanner(analyzer, extractor)

	prop := pl.PlanFile(context.Background(), "/data/Scan 2024-01-15 final.txt")
	if prop == nil {
		t.Fatal("expected a proposal")
	}
	if !prop.Success {
		t.Fatalf("proposal failed: %s", prop.Error)
	}
	if prop.NewName != "nike-invoice-q1-order-20240115.txt" {
		t.Errorf("NewName = %q", prop.NewName)
	}
	if prop.NewPath != "/data/nike-invoice-q1-order-20240115.txt" {
		t.Errorf("NewPath = %q", prop.NewPath)
	}
	if analyzer.textCalls != 1 || analyzer.imageCalls != 0 {
		t.Errorf("expected one text analysis, got %d text / %d image", analyzer.textCalls, analyzer.imageCalls)
	}
}

func TestPlanFileRoutesImagesToVision(t *testing.T) {
	analyzer := &fakeAnalyzer{components: llm.Components{Subject: "sunset"}}
	pl := newTestPlanner(analyzer, &fakeExtractor{err: errors.New("extractor must not be called")})

	prop := pl.PlanFile(context.Background(), "/data/IMG_20240115_093000.jpg")
	if prop == nil {
		t.Fatal("expected a proposal")
	}
	if analyzer.imageCalls != 1 || analyzer.textCalls != 0 {
		t.Errorf("expected one image analysis, got %d image / %d text", analyzer.imageCalls, analyzer.textCalls)
	}
	if prop.NewName != "sunset-20240115.jpg" {
		t.Errorf("NewName = %q", prop.NewName)
	}
}

func TestPlanFileSkipsAlreadyFormatted(t *testing.T) {
	analyzer := &fakeAnalyzer{components: llm.Components{Subject: "whatever"}}
	pl := newTestPlanner(analyzer, &fakeExtractor{content: "text"})

	prop := pl.PlanFile(context.Background(), "/data/nike-invoice-20240115.txt")
	if prop != nil {
		t.Errorf("expected skip, got proposal %+v", prop)
	}
	if analyzer.textCalls != 0 {
		t.Error("formatted file must not be analyzed")
	}
}

func TestPlanFileSkipsOnExtractionFailure(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{components: llm.Components{Subject: "x"}},
		&fakeExtractor{err: errors.New("corrupt file")})

	if prop := pl.PlanFile(context.Background(), "/data/Broken Scan.pdf"); prop != nil {
		t.Errorf("expected skip, got %+v", prop)
	}
}

func TestPlanFileSkipsOnEmptyContent(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{components: llm.Components{Subject: "x"}},
		&fakeExtractor{content: ""})

	if prop := pl.PlanFile(context.Background(), "/data/Blank Page.txt"); prop != nil {
		t.Errorf("expected skip, got %+v", prop)
	}
}

func TestPlanFileSkipsOnAnalysisFailure(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{err: errors.New("model unreachable")},
		&fakeExtractor{content: "some text"})

	if prop := pl.PlanFile(context.Background(), "/data/Meeting Notes.txt"); prop != nil {
		t.Errorf("expected skip, got %+v", prop)
	}
}

func TestPlanFileRecoversFromPanic(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{panicOnUse: true},
		&fakeExtractor{content: "some text"})

	prop := pl.PlanFile(context.Background(), "/data/Meeting Notes.txt")
	if prop == nil {
		t.Fatal("panic must yield a failure proposal, not nil")
	}
	if prop.Success {
		t.Error("panic proposal marked successful")
	}
	if prop.Error == "" {
		t.Error("panic proposal carries no detail")
	}
}

func TestPlanFileFallsBackToCurrentDate(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{components: llm.Components{Subject: "memo"}},
		&fakeExtractor{content: "text"})

	prop := pl.PlanFile(context.Background(), "/data/Undated Memo.txt")
	if prop == nil {
		t.Fatal("expected a proposal")
	}
	// Name carries today's date: memo-<8 digits>.txt
	if len(prop.NewName) != len("memo-")+8+len(".txt") {
		t.Errorf("NewName = %q, expected a trailing current date", prop.NewName)
	}
}

func TestPlanAllHonorsCancellation(t *testing.T) {
	pl := newTestPlanner(
		&fakeAnalyzer{components: llm.Components{Subject: "x"}},
		&fakeExtractor{content: "text"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proposals := pl.PlanAll(ctx, []string{"/data/a.txt", "/data/b.txt"})
	if len(proposals) != 0 {
		t.Errorf("cancelled context still planned %d files", len(proposals))
	}
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "Scan001.txt")
	newPath := filepath.Join(dir, "acme-invoice-20240115.txt")
	if err := os.WriteFile(oldPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A second proposal whose destination is already taken.
	blockedOld := filepath.Join(dir, "Scan002.txt")
	blockedNew := filepath.Join(dir, "occupied.txt")
	if err := os.WriteFile(blockedOld, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(blockedNew, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	proposals := []Proposal{
		{OldPath: oldPath, NewPath: newPath, OldName: "Scan001.txt", NewName: "acme-invoice-20240115.txt", Success: true},
		{OldPath: blockedOld, NewPath: blockedNew, OldName: "Scan002.txt", NewName: "occupied.txt", Success: true},
		{OldPath: "/data/failed.txt", OldName: "failed.txt", Success: false, Error: "no content"},
	}

	tracker, err := ledger.NewTracker(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	renamed := Apply(proposals, tracker, nil)
	if renamed != 1 {
		t.Errorf("Apply() = %d renamed, want 1", renamed)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("file not renamed: %v", err)
	}
	if _, err := os.Stat(blockedOld); err != nil {
		t.Errorf("blocked file must stay in place: %v", err)
	}

	total, successful, failed := tracker.Counts()
	if total != 2 || successful != 1 || failed != 1 {
		t.Errorf("tracker counts = (%d, %d, %d), want (2, 1, 1)", total, successful, failed)
	}
}

func TestApplySkipsUnchangedNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "same.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tracker, err := ledger.NewTracker(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	renamed := Apply([]Proposal{
		{OldPath: path, NewPath: path, OldName: "same.txt", NewName: "same.txt", Success: true},
	}, tracker, nil)

	if renamed != 0 {
		t.Errorf("Apply() = %d, want 0", renamed)
	}
	if tracker.Len() != 0 {
		t.Errorf("unchanged name recorded in ledger: %d records", tracker.Len())
	}
}
