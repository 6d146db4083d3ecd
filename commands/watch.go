package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/config"
	"github.com/tidyname/tidyname/extract"
	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/llm"
	"github.com/tidyname/tidyname/namer"
	"github.com/tidyname/tidyname/planner"
)

// settleDelay gives a newly created file time to finish being written before
// its content is read.
const settleDelay = 2 * time.Second

func newWatchCmd(configPath *string) *cobra.Command {
	var (
		path    string
		execute bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and rename files as they appear",
		Long: `Watch monitors a directory and processes each supported file as it is
created. Without --execute it only prints what it would rename. Executed
renames are collected into a single session log, written on shutdown.
Stop watching with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), *configPath, path, execute)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Directory to watch")
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply renames instead of printing them")

	return cmd
}

func runWatch(parent context.Context, configPath, path string, execute bool) error {
	logger := slog.Default()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	client := llm.NewClient(cfg, llm.WithLogger(logger))
	if _, err := client.Ping(parent); err != nil {
		return fmt.Errorf("model server unreachable at %s: %w", cfg.Server.BaseURL, err)
	}

	pl := planner.New(cfg,
		extract.New(cfg.Extraction, logger),
		client,
		namer.New(cfg.Naming),
		logger)

	var tracker *ledger.Tracker
	if execute {
		tracker, err = ledger.NewTracker("", logger)
		if err != nil {
			return fmt.Errorf("open rename log: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for new files. Press Ctrl-C to stop.\n", path)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case event, ok := <-watcher.Events:
			if !ok {
				break loop
			}
			if !event.Op.Has(fsnotify.Create) {
				continue
			}
			handleCreated(ctx, cfg, pl, tracker, event.Name, execute, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				break loop
			}
			logger.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}

	if tracker != nil && tracker.Len() > 0 {
		logPath, err := tracker.Save()
		if err != nil {
			return fmt.Errorf("save rename log: %w", err)
		}
		fmt.Printf("Session log: %s\n", logPath)
	}
	return nil
}

// handleCreated plans (and optionally applies) a rename for one newly created
// file, ignoring anything the watcher reports that is not a processable file.
func handleCreated(ctx context.Context, cfg *config.Config, pl *planner.Planner, tracker *ledger.Tracker, path string, execute bool, logger *slog.Logger) {
	name := filepath.Base(path)
	if cfg.Processing.SkipHidden && strings.HasPrefix(name, ".") {
		return
	}
	if !cfg.IsSupported(strings.ToLower(filepath.Ext(name))) {
		return
	}

	// The create event fires before the writer is done.
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	prop := pl.PlanFile(ctx, path)
	if prop == nil {
		return
	}
	if !prop.Success {
		logger.Warn("Could not process new file",
			slog.String("file", prop.OldName),
			slog.String("error", prop.Error))
		return
	}

	if !execute {
		fmt.Printf("Would rename: %s -> %s\n", prop.OldName, prop.NewName)
		return
	}
	planner.Apply([]planner.Proposal{*prop}, tracker, logger)
}
