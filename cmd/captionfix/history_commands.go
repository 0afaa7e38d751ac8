package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"captionfix/internal/api"
	"captionfix/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded caption batches",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent batches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			batches, err := api.NewHistoryService(store).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, api.BatchListResponse{Batches: batches})
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches recorded")
				return nil
			}

			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID,
					b.CreatedAt,
					b.Status,
					b.Trigger,
					strconv.Itoa(b.EntryCount),
					strconv.Itoa(b.ChangeCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Created", "Status", "Trigger", "Entries", "Changes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", api.DefaultListLimit, "Maximum number of batches to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Show one batch with its change records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			detail, err := api.NewHistoryService(store).Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, api.BatchResponse{Batch: *detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch:    %s\n", detail.ID)
			fmt.Fprintf(out, "Upload:   %s\n", textutil.Fallback(detail.UploadName, "-"))
			fmt.Fprintf(out, "Created:  %s\n", detail.CreatedAt)
			fmt.Fprintf(out, "Status:   %s\n", detail.Status)
			fmt.Fprintf(out, "Trigger:  %s (found: %s)\n", detail.Trigger, yesNo(detail.TriggerFound))
			fmt.Fprintf(out, "Entries:  %d, changed: %d\n", detail.EntryCount, detail.ChangeCount)
			if detail.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:    %s\n", detail.ErrorMessage)
			}
			if len(detail.Changes) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(detail.Changes))
			for _, change := range detail.Changes {
				rows = append(rows, []string{change.FileName, change.Original, change.Corrected})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Original", "Edited"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
