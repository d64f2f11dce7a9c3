package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmill/internal/connectors/folder"
	"github.com/custodia-labs/docmill/internal/core/domain"
)

var ingestOutput string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Process a single document",
	Long: `Runs one document through the full pipeline and prints the outcome.
Useful for re-processing a file or trying out threshold settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "",
		"artifact output directory (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := filepath.Base(path)

	if !folder.Accepts(name) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(name))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg, ingestOutput)
	if err != nil {
		return err
	}
	defer p.close()

	result, err := p.orchestrator.Ingest(ctx, &domain.RawDocument{
		FileName:    name,
		Content:     content,
		ArrivalTime: time.Now(),
	})
	if err != nil {
		return err
	}

	printResult(cmd, result)
	if result.Status.Failed() {
		return fmt.Errorf("processing failed: %s", result.Error)
	}
	return nil
}

func printResult(cmd *cobra.Command, result *domain.PipelineResult) {
	cmd.Printf("Document:  %s\n", result.FileName)
	cmd.Printf("ID:        %s\n", result.DocumentID)
	cmd.Printf("Status:    %s\n", result.Status)
	if result.Fingerprint != "" {
		cmd.Printf("Hash:      %s\n", result.Fingerprint)
	}
	if result.OriginalPages > 0 {
		cmd.Printf("Pages:     %d retained of %d\n", result.RetainedPages, result.OriginalPages)
	}
	if result.Duplicate {
		cmd.Printf("Duplicate: %d match(es)\n", len(result.Matches))
		for _, match := range result.Matches {
			cmd.Printf("  %s  %s  %.1f%%\n", match.DocumentID, match.FileName, match.Similarity*100)
		}
	}
	if result.CleanedPath != "" {
		cmd.Printf("Cleaned:   %s\n", result.CleanedPath)
	}
	for _, path := range result.SplitPaths {
		cmd.Printf("Split:     %s\n", path)
	}
	if result.EnrichedPath != "" {
		cmd.Printf("Enriched:  %s\n", result.EnrichedPath)
	}
	if result.Analysis != nil {
		cmd.Printf("Analysis:  %s (%.0f%% confidence)\n",
			result.Analysis.DocumentType, result.Analysis.Confidence*100)
		for _, anomaly := range result.Analysis.Anomalies {
			cmd.Printf("  anomaly: %s\n", anomaly)
		}
	}
}
