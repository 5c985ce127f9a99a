package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/config"
	"github.com/jatakam/dashatree/internal/ledger"
	"github.com/jatakam/dashatree/internal/pipeline"
	"github.com/jatakam/dashatree/internal/telemetry"
	"github.com/jatakam/dashatree/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every chart in the charts directory",
	Long: "Run builds, serializes, parses, and round-trip-verifies every dasha system of\n" +
		"every chart file, writing raw text and nested JSON artifacts under the output\n" +
		"directory and recording each extraction in the run ledger.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("charts-dir", "", "directory of chart .toml files")
	runCmd.Flags().String("output-dir", "", "artifact output directory")
	runCmd.Flags().Int("workers", 0, "override worker count")
	runCmd.Flags().Float64("vimsottari-years", 0, "override Vimsottari horizon in years")
	runCmd.Flags().Float64("chara-years", 0, "override Chara horizon in years")

	rootCmd.AddCommand(runCmd)
}

// applyRunFlagOverrides applies CLI flag values to the loaded config.
func applyRunFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("charts-dir"); v != "" {
		cfg.ChartsDir = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetFloat64("vimsottari-years"); v > 0 {
		cfg.VimsottariYears = v
	}
	if v, _ := cmd.Flags().GetFloat64("chara-years"); v > 0 {
		cfg.CharaYears = v
	}
}

// buildPipeline assembles a pipeline with optional ledger and telemetry
// collaborators. The returned cleanup closes whatever was opened.
func buildPipeline(cmd *cobra.Command, printer *ui.Printer) (*pipeline.Pipeline, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	applyRunFlagOverrides(cmd, &cfg)

	p := &pipeline.Pipeline{Cfg: cfg, UI: printer}
	printer.Quiet = cfg.Quiet

	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.LedgerPath != "" {
		led, err := ledger.Open(cmd.Context(), cfg.LedgerPath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { led.Close() })
		p.Ledger = led
	}
	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { em.Close() })
		p.Telemetry = em
	}
	return p, cleanup, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	p, cleanup, err := buildPipeline(cmd, printer)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	printer.Banner()
	summary, err := p.RunDir(ctx, p.Cfg.ChartsDir)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d chart(s) failed", summary.Failed, summary.Charts)
	}
	return nil
}
