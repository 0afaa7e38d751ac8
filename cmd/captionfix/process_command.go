package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"captionfix/internal/archive"
	"captionfix/internal/caption"
	"captionfix/internal/config"
	"captionfix/internal/fileutil"
	"captionfix/internal/logging"
	"captionfix/internal/textutil"
	"captionfix/internal/workspace"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		dryRun     bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "process <captions.txt>",
		Short: "Normalize a caption file and write processed_captions.zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input := strings.TrimSpace(args[0])
			if !strings.HasSuffix(input, ".txt") {
				return errors.New("only .txt files are supported")
			}

			batchID := uuid.NewString()
			batch, err := processFile(cmd.Context(), cfg, input, ctx)
			if err != nil {
				recordFailure(cmd.Context(), ctx, ctx.cliLogger(), batchID, filepath.Base(input), err)
				return err
			}

			if jsonOut {
				if err := writeJSON(cmd, batch.Changes); err != nil {
					return err
				}
			} else {
				printChanges(cmd.OutOrStdout(), batch)
			}
			if dryRun {
				return nil
			}

			target, err := config.ExpandPath(outputPath)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := writeArchive(cmd.Context(), cfg, ctx, batchID, batch, target); err != nil {
				return err
			}
			recordBatch(cmd.Context(), ctx, ctx.cliLogger(), batchID, filepath.Base(input), batch)
			if !jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d changed caption(s) to %s\n", len(batch.Changes), target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", archive.FileName, "Destination ZIP path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print changes without writing the archive")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print change records as JSON")
	return cmd
}

func processFile(ctx context.Context, cfg *config.Config, path string, cc *commandContext) (*caption.Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open captions: %w", err)
	}
	defer file.Close()

	lines, err := caption.ReadLines(file)
	if err != nil {
		return nil, err
	}
	opts, err := caption.OptionsFromConfig(cfg.Rules)
	if err != nil {
		return nil, err
	}
	return caption.NewProcessor(opts, cc.cliLogger()).Process(ctx, lines)
}

func writeArchive(ctx context.Context, cfg *config.Config, cc *commandContext, batchID string, batch *caption.Batch, target string) error {
	logger := cc.cliLogger()
	ws, err := workspace.NewManager(cfg.Paths.WorkDir, cfg.Workspace.Keep, logger).Create(batchID)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Release() }()

	result, err := archive.Build(ctx, ws, batch.Changes, logger)
	if err != nil {
		return err
	}
	return fileutil.PublishFile(result.Path, target, 0o644)
}

func recordBatch(ctx context.Context, cc *commandContext, logger *slog.Logger, batchID, uploadName string, batch *caption.Batch) {
	store, err := cc.openHistory()
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.RecordBatch(ctx, batchID, uploadName, batch); err != nil {
		warnHistoryRecord(logger, batchID, err)
	}
}

func recordFailure(ctx context.Context, cc *commandContext, logger *slog.Logger, batchID, uploadName string, cause error) {
	store, err := cc.openHistory()
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.RecordFailure(ctx, batchID, uploadName, cause); err != nil {
		warnHistoryRecord(logger, batchID, err)
	}
}

func warnHistoryRecord(logger *slog.Logger, batchID string, err error) {
	logging.WarnWithContext(logger, "failed to record batch history", "history_record_failed",
		logging.String(logging.FieldBatchID, batchID),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check data_dir permissions"),
		logging.String(logging.FieldImpact, "batch missing from history"),
	)
}

func printChanges(out io.Writer, batch *caption.Batch) {
	trigger := textutil.Fallback(batch.Trigger, "(none detected)")
	fmt.Fprintf(out, "Trigger: %s\n", trigger)
	fmt.Fprintf(out, "Entries: %d, changed: %d\n", batch.Entries, len(batch.Changes))
	if len(batch.Changes) == 0 {
		fmt.Fprintln(out, "No changes made.")
		return
	}

	rows := make([][]string, 0, len(batch.Changes))
	for _, change := range batch.Changes {
		rows = append(rows, []string{
			change.FileName,
			change.Original,
			change.Corrected,
			strconv.Itoa(len(change.Logs)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Original", "Edited", "Notes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
}
