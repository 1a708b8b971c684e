// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperfetch/internal/catalog"
	"github.com/pdiddy/paperfetch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent retrieval outcomes from the catalog",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("output-dir", "papers", "base directory for downloaded PDFs")
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")
	historyCmd.Flags().Bool("counts", false, "show per-status totals instead of entries")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	showCounts, _ := cmd.Flags().GetBool("counts")

	store, err := catalog.Open(filepath.Join(outputDir, catalogDirName))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if showCounts {
		counts, err := store.Counts(ctx)
		if err != nil {
			return err
		}
		for _, status := range []types.RetrievalStatus{
			types.StatusSuccess, types.StatusSkipped, types.StatusNotFound, types.StatusError,
		} {
			fmt.Fprintf(os.Stdout, "%s\t%d\n", status, counts[status])
		}
		return nil
	}

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no retrievals recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tSOURCE\tPAPER")
	for _, e := range entries {
		label := e.Title
		if label == "" {
			label = e.Input
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.FinishedAt.Local().Format("2006-01-02 15:04"), e.Status, e.Source, label)
	}
	return w.Flush()
}
