package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the charts directory and reprocess charts on change",
	Long: "Watch runs a full pass over the charts directory, then keeps running,\n" +
		"reprocessing any chart file that is created or edited until interrupted.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("charts-dir", "", "directory of chart .toml files")
	watchCmd.Flags().String("output-dir", "", "artifact output directory")
	watchCmd.Flags().Int("debounce-ms", 0, "override the change debounce window")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	p, cleanup, err := buildPipeline(cmd, printer)
	if err != nil {
		return err
	}
	defer cleanup()
	if v, _ := cmd.Flags().GetInt("debounce-ms"); v > 0 {
		p.Cfg.WatchDebounceMs = v
	}

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	printer.Banner()
	err = p.Watch(ctx, p.Cfg.ChartsDir)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
