package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/calendar"
	"github.com/jatakam/dashatree/internal/chart"
	"github.com/jatakam/dashatree/internal/dasha"
)

var buildCmd = &cobra.Command{
	Use:   "build <chart.toml>",
	Short: "Build a chart's dasha trees and print the serialized text",
	Long: "Build reads one chart file, computes the period tree for each requested dasha\n" +
		"system, and writes the serialized text to stdout. No artifacts are written.",
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("system", "all", "dasha system to build: vimsottari, chara, or all")
	buildCmd.Flags().Float64("horizon", 0, "override the horizon in years for all systems")

	rootCmd.AddCommand(buildCmd)
}

// chartSystem pairs a system with its oracle and horizon for one chart.
type chartSystem struct {
	Sys     dasha.System
	Oracle  dasha.Oracle
	Horizon float64
}

// resolveSystems returns the systems selected by the --system flag that the
// chart actually carries inputs for.
func resolveSystems(c *chart.Chart, selector string, vimYears, charaYears float64) ([]chartSystem, error) {
	wantVim := selector == "all" || selector == "vimsottari"
	wantChara := selector == "all" || selector == "chara"
	if !wantVim && !wantChara {
		return nil, fmt.Errorf("unknown system %q (want vimsottari, chara, or all)", selector)
	}

	var systems []chartSystem
	if wantVim && c.HasVimsottari() {
		o, err := c.VimsottariOracle()
		if err != nil {
			return nil, err
		}
		systems = append(systems, chartSystem{Sys: dasha.Vimsottari(), Oracle: o, Horizon: vimYears})
	}
	if wantChara && c.HasChara() {
		o, err := c.CharaOracle()
		if err != nil {
			return nil, err
		}
		systems = append(systems, chartSystem{Sys: dasha.KNRaoChara(), Oracle: o, Horizon: charaYears})
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("chart %s has no inputs for the requested system(s)", c.SourceFile)
	}
	return systems, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := chart.Load(args[0])
	if err != nil {
		return err
	}

	selector, _ := cmd.Flags().GetString("system")
	vimYears, charaYears := cfg.VimsottariYears, cfg.CharaYears
	if h, _ := cmd.Flags().GetFloat64("horizon"); h > 0 {
		vimYears, charaYears = h, h
	}

	systems, err := resolveSystems(c, selector, vimYears, charaYears)
	if err != nil {
		return err
	}

	scale := calendar.NewScale(cfg.SiderealYearDays)
	for i, cs := range systems {
		builder := &dasha.Builder{System: cs.Sys, Oracle: cs.Oracle, Scale: scale}
		tree, err := builder.Build(c.Epoch(), cs.Horizon)
		if err != nil {
			return fmt.Errorf("build %s: %w", cs.Sys.Name, err)
		}
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprint(os.Stdout, dasha.Serialize(cs.Sys, tree))
	}
	return nil
}
