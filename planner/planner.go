// Package planner orchestrates extraction, analysis and formatting into
// per-file rename proposals, and applies accepted proposals against the
// filesystem. Processing is intentionally sequential: batching exists to
// insert pauses between groups of model calls, bounding load on the local
// model server, not to add parallelism.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidyname/tidyname/config"
	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/llm"
	"github.com/tidyname/tidyname/namer"
)

// analysisLimit caps the characters of extracted content forwarded to the
// analyzer, bounding request size.
const analysisLimit = 1000

// Proposal is one proposed rename, ephemeral to a single run.
type Proposal struct {
	OldPath string
	NewPath string
	OldName string
	NewName string
	// Success is false when processing the file failed; Error carries the
	// human-readable detail.
	Success bool
	Error   string
}

// Analyzer is the semantic analysis collaborator: it maps raw content to
// filename components via a model call.
type Analyzer interface {
	AnalyzeText(ctx context.Context, content string) (llm.Components, error)
	AnalyzeImage(ctx context.Context, path string) (llm.Components, error)
}

// Extractor is the content extraction collaborator.
type Extractor interface {
	Extract(path string) (string, error)
}

// Planner builds rename proposals for files.
type Planner struct {
	cfg       *config.Config
	extractor Extractor
	analyzer  Analyzer
	formatter *namer.Formatter
	logger    *slog.Logger
}

// New creates a Planner. All collaborators are required except logger
// (nil selects the default).
func New(cfg *config.Config, extractor Extractor, analyzer Analyzer, formatter *namer.Formatter, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		cfg:       cfg,
		extractor: extractor,
		analyzer:  analyzer,
		formatter: formatter,
		logger:    logger,
	}
}

// PlanFile produces a rename proposal for one file, or nil when the file is
// skipped: either its name already follows the convention, or its content
// could not be extracted or analyzed. Unexpected panics while processing are
// converted into a failure-flagged proposal so one bad file never aborts a
// run.
func (p *Planner) PlanFile(ctx context.Context, path string) (prop *Proposal) {
	name := filepath.Base(path)

	defer func() {
		if r := recover(); r != nil {
			prop = &Proposal{
				OldPath: path,
				OldName: name,
				Success: false,
				Error:   fmt.Sprintf("processing panic: %v", r),
			}
			p.logger.Error("Recovered from panic while processing file",
				slog.String("file", name),
				slog.Any("panic", r))
		}
	}()

	if p.cfg.Processing.SkipAlreadyFormatted && p.formatter.IsAlreadyFormatted(name) {
		p.logger.Debug("Skipping already formatted file", slog.String("file", name))
		return nil
	}

	components, ok := p.analyze(ctx, path, name)
	if !ok {
		return nil
	}

	date, found := namer.ExtractDateFromFilename(name)
	if !found {
		date = p.formatter.CurrentDate()
	}

	stem := p.formatter.FormatComponents(components, date)
	newName := stem + filepath.Ext(path)
	newPath := filepath.Join(filepath.Dir(path), newName)

	return &Proposal{
		OldPath: path,
		NewPath: newPath,
		OldName: name,
		NewName: newName,
		Success: true,
	}
}

// analyze routes a file to the vision or text analyzer by extension.
// It returns false when the file should be skipped: the collaborators could
// not produce content or components for it.
func (p *Planner) analyze(ctx context.Context, path, name string) (llm.Components, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	if p.cfg.IsImage(ext) {
		p.logger.Debug("Analyzing image", slog.String("file", name))
		components, err := p.analyzer.AnalyzeImage(ctx, path)
		if err != nil {
			p.logger.Warn("Could not analyze image, skipping",
				slog.String("file", name),
				slog.String("error", err.Error()))
			return llm.Components{}, false
		}
		return components, true
	}

	content, err := p.extractor.Extract(path)
	if err != nil {
		p.logger.Warn("Could not extract content, skipping",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return llm.Components{}, false
	}
	if content == "" {
		p.logger.Warn("No content extracted, skipping", slog.String("file", name))
		return llm.Components{}, false
	}
	if len(content) > analysisLimit {
		content = content[:analysisLimit]
	}

	p.logger.Debug("Analyzing content", slog.String("file", name))
	components, err := p.analyzer.AnalyzeText(ctx, content)
	if err != nil {
		p.logger.Warn("Could not analyze content, skipping",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return llm.Components{}, false
	}
	return components, true
}

// PlanAll processes files in fixed-size batches, pausing between batches when
// more than one exists. Files within a batch are processed strictly one at a
// time. A cancelled context stops between files and returns what has been
// planned so far.
func (p *Planner) PlanAll(ctx context.Context, files []string) []Proposal {
	batchSize := p.cfg.Processing.BatchSize
	totalBatches := (len(files) + batchSize - 1) / batchSize

	var proposals []Proposal

	for batch := 0; batch < totalBatches; batch++ {
		start := batch * batchSize
		end := min(start+batchSize, len(files))

		if totalBatches > 1 {
			p.logger.Info("Processing batch",
				slog.Int("batch", batch+1),
				slog.Int("total_batches", totalBatches),
				slog.Int("files", end-start))
		}

		for _, file := range files[start:end] {
			if ctx.Err() != nil {
				return proposals
			}
			if prop := p.PlanFile(ctx, file); prop != nil {
				proposals = append(proposals, *prop)
			}
		}

		// Let the model server breathe between batches.
		if batch < totalBatches-1 {
			p.logger.Info("Pausing before next batch",
				slog.Duration("pause", p.cfg.Processing.BatchPause))
			select {
			case <-time.After(p.cfg.Processing.BatchPause):
			case <-ctx.Done():
				return proposals
			}
		}
	}

	return proposals
}

// Apply executes the successful proposals and records every attempt in the
// tracker. Failures are recorded and reported but never abort the batch.
// It returns the number of files actually renamed.
func Apply(proposals []Proposal, tracker *ledger.Tracker, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	renamed := 0
	for _, prop := range proposals {
		if !prop.Success {
			continue
		}
		if prop.NewPath == prop.OldPath {
			logger.Info("Name unchanged, skipping", slog.String("file", prop.OldName))
			continue
		}

		// os.Rename silently replaces an existing destination; refuse to
		// clobber an unrelated file.
		if _, err := os.Stat(prop.NewPath); err == nil {
			detail := "destination already exists"
			tracker.Record(prop.OldPath, prop.NewPath, false, detail)
			logger.Error("Rename failed",
				slog.String("from", prop.OldName),
				slog.String("to", prop.NewName),
				slog.String("error", detail))
			continue
		}

		if err := os.Rename(prop.OldPath, prop.NewPath); err != nil {
			tracker.Record(prop.OldPath, prop.NewPath, false, err.Error())
			logger.Error("Rename failed",
				slog.String("from", prop.OldName),
				slog.String("to", prop.NewName),
				slog.String("error", err.Error()))
			continue
		}

		tracker.Record(prop.OldPath, prop.NewPath, true, "")
		logger.Info("Renamed",
			slog.String("from", prop.OldName),
			slog.String("to", prop.NewName))
		renamed++
	}

	return renamed
}
