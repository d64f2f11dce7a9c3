package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/jsonindex"
	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/sqlite"
)

var indexRecent int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "List the duplicate index",
	Long: `Prints every document registered in the duplicate index, oldest first.
With --recent, prints the last N pipeline results from the ledger instead.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&indexRecent, "recent", 0,
		"show the last N pipeline results instead of the index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexRecent > 0 {
		return printRecent(cmd, indexRecent)
	}

	store, err := jsonindex.NewStore(filepath.Join(cfg.Folders.Data, indexFileName))
	if err != nil {
		return err
	}
	entries, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("index is empty")
		return nil
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return entries[ids[i]].Timestamp.Before(entries[ids[j]].Timestamp)
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tFILE\tHASH\tSIZE\tREGISTERED")
	for _, id := range ids {
		e := entries[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			id, e.FileName, e.Fingerprint, e.FileSize,
			e.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func printRecent(cmd *cobra.Command, limit int) error {
	ledger, err := sqlite.NewLedger(cfg.Folders.Data)
	if err != nil {
		return err
	}
	defer ledger.Close() //nolint:errcheck

	results, err := ledger.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("no results recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tFILE\tSTATUS\tPAGES\tDUPLICATE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%t\n",
			r.DocumentID, r.FileName, r.Status,
			r.RetainedPages, r.OriginalPages, r.Duplicate)
	}
	return w.Flush()
}
