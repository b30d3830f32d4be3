package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"audiomerge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent merges",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if records == nil {
					records = []history.Record{}
				}
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No merges recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(records, time.Now()))
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of merges to show (0 for all)")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one merge, including the ffmpeg arguments it ran",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, rec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:           %s\n", rec.ID)
			fmt.Fprintf(out, "Status:       %s\n", rec.Status)
			fmt.Fprintf(out, "Started:      %s\n", rec.StartedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "Input:        %s\n", rec.InputPath)
			fmt.Fprintf(out, "Output:       %s\n", rec.OutputPath)
			fmt.Fprintf(out, "Tracks:       %s\n", rec.Title)
			fmt.Fprintf(out, "Filter graph: %s\n", rec.FilterGraph)
			if rec.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:        %s (%s)\n", rec.ErrorMessage, rec.ErrorKind)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all merge history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d merge record(s)\n", removed)
			return nil
		},
	}
}

func renderHistoryTable(records []history.Record, now time.Time) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		size := "-"
		if rec.OutputBytes > 0 {
			size = humanize.Bytes(uint64(rec.OutputBytes))
		}
		output := "-"
		if rec.OutputPath != "" {
			output = filepath.Base(rec.OutputPath)
		}
		rows = append(rows, []string{
			humanize.RelTime(rec.StartedAt, now, "ago", "from now"),
			string(rec.Status),
			filepath.Base(rec.InputPath),
			output,
			rec.Title,
			size,
			rec.Duration().Round(time.Second).String(),
		})
	}
	return renderTable(
		[]string{"Started", "Status", "Input", "Output", "Tracks", "Size", "Elapsed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}
