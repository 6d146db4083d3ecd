package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/extract"
	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/llm"
	"github.com/tidyname/tidyname/namer"
	"github.com/tidyname/tidyname/output"
	"github.com/tidyname/tidyname/planner"
)

type renameOptions struct {
	path      string
	execute   bool
	yes       bool
	recursive bool
	types     string
	batchSize int
}

func newRenameCmd(configPath *string) *cobra.Command {
	var opts renameOptions

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Analyze files and propose content-based names",
		Long: `Rename analyzes the files in a directory with the configured model and
proposes standardized names. By default this is a dry run that only shows
the proposals; pass --execute to apply them. Executed renames are recorded
in a session log that undo can revert.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd.Context(), *configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "Directory to process")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Apply the proposed renames")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Process subdirectories too")
	cmd.Flags().StringVarP(&opts.types, "types", "t", "", "Comma-separated extensions to include (e.g. pdf,docx)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Files per batch (overrides config)")

	return cmd
}

func runRename(ctx context.Context, configPath string, opts renameOptions) error {
	logger := slog.Default()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if opts.batchSize > 0 {
		cfg.Processing.BatchSize = opts.batchSize
	}

	client := llm.NewClient(cfg, llm.WithLogger(logger))
	models, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("model server unreachable at %s: %w", cfg.Server.BaseURL, err)
	}
	logger.Info("Connected to model server",
		slog.String("base_url", cfg.Server.BaseURL),
		slog.Int("models", len(models)))

	files, err := planner.Discover(opts.path, cfg, opts.recursive, splitTypes(opts.types))
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No supported files found to process.")
		return nil
	}
	fmt.Printf("Found %d file(s) to analyze.\n", len(files))

	pl := planner.New(cfg,
		extract.New(cfg.Extraction, logger),
		client,
		namer.New(cfg.Naming),
		logger)

	proposals := pl.PlanAll(ctx, files)
	if len(proposals) == 0 {
		fmt.Println("Nothing to rename: every file was skipped.")
		return nil
	}

	fmt.Println(output.Proposals(proposals))

	if !opts.execute {
		fmt.Println("Dry run: no files were renamed. Re-run with --execute to apply.")
		return nil
	}

	if !opts.yes && !confirm(fmt.Sprintf("Rename %d file(s)?", countSuccessful(proposals))) {
		fmt.Println("Cancelled.")
		return nil
	}

	tracker, err := ledger.NewTracker("", logger)
	if err != nil {
		return fmt.Errorf("open rename log: %w", err)
	}

	renamed := planner.Apply(proposals, tracker, logger)

	if tracker.Len() > 0 {
		logPath, err := tracker.Save()
		if err != nil {
			return fmt.Errorf("save rename log: %w", err)
		}
		fmt.Printf("Session log: %s\n", logPath)
	}

	_, _, failed := tracker.Counts()
	fmt.Printf("Renamed %d file(s), %d failed.\n", renamed, failed)
	return nil
}

func countSuccessful(proposals []planner.Proposal) int {
	n := 0
	for _, p := range proposals {
		if p.Success {
			n++
		}
	}
	return n
}

func splitTypes(types string) []string {
	if strings.TrimSpace(types) == "" {
		return nil
	}
	return strings.Split(types, ",")
}
