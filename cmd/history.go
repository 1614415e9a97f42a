package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"castbrowse/internal/config"
	"castbrowse/internal/history"
)

var (
	flagClear bool
	flagLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List visited pages",
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded visits")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of visits to show (0 for all)")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	defer store.Close()

	ctx, out := cmd.Context(), cmd.OutOrStdout()
	if flagClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	visits, err := store.Recent(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(visits) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	for _, line := range history.FormatForDisplay(visits) {
		fmt.Fprintln(out, line)
	}
	return nil
}
