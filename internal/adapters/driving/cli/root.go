// Package cli implements the docmill command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmill/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmill/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool

	// cfg is loaded once in the persistent pre-run and read by every
	// command.
	cfg *file.Config
)

var rootCmd = &cobra.Command{
	Use:   "docmill",
	Short: "Document ingestion and deduplication pipeline",
	Long: `docmill watches a folder for scanned documents, derives a stable
identity for each one, filters blank pages, splits multi-page documents,
and flags perceptual near-duplicates against a persistent index.
Optional collaborators enrich (OCR), analyse and record each result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		path := cfgPath
		if path == "" {
			var err error
			if path, err = file.DefaultPath(); err != nil {
				return err
			}
		}

		loaded, err := file.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file (default ~/.docmill/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
}
