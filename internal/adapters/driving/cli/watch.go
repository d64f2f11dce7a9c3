package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmill/internal/connectors/folder"
	"github.com/custodia-labs/docmill/internal/logger"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and process arriving documents",
	Long: `Processes every document already in the folder, then keeps watching
for new files until interrupted. The folder argument overrides the
configured inbox.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "",
		"artifact output directory (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inbox := cfg.Folders.Inbox
	if len(args) > 0 {
		inbox = args[0]
	}
	if inbox == "" {
		return errors.New("no folder to watch: pass one or set folders.inbox in the config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, cfg, watchOutput)
	if err != nil {
		return err
	}
	defer p.close()

	feed, err := folder.New(inbox, p.orchestrator,
		folder.WithSettleDelay(cfg.Pipeline.SettleDelay.Std()),
		folder.WithMaxFileSize(cfg.Pipeline.MaxFileSize))
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", inbox)
	if err := feed.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	logger.Info("watch stopped")
	return nil
}
