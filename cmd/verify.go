package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/calendar"
	"github.com/jatakam/dashatree/internal/chart"
	"github.com/jatakam/dashatree/internal/dasha"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <chart.toml>",
	Short: "Round-trip check a chart without writing artifacts",
	Long: "Verify builds each dasha system of a chart, serializes the tree, parses the\n" +
		"text back, and compares the reconstruction against the built tree node by\n" +
		"node. Any mismatch or structural issue exits non-zero.",
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printer := newPrinter(cfg)

	c, err := chart.Load(args[0])
	if err != nil {
		return err
	}
	systems, err := resolveSystems(c, "all", cfg.VimsottariYears, cfg.CharaYears)
	if err != nil {
		return err
	}

	scale := calendar.NewScale(cfg.SiderealYearDays)
	failed := 0
	for _, cs := range systems {
		builder := &dasha.Builder{System: cs.Sys, Oracle: cs.Oracle, Scale: scale}
		tree, err := builder.Build(c.Epoch(), cs.Horizon)
		if err != nil {
			return fmt.Errorf("build %s: %w", cs.Sys.Name, err)
		}

		doc := dasha.Parse(dasha.Serialize(cs.Sys, tree))
		printer.ParseWarnings(doc.Warnings)

		ok := true
		if err := dasha.VerifyRoundTrip(cs.Sys, tree, doc.Detailed()); err != nil {
			printer.Error(err.Error())
			ok = false
		}
		for _, issue := range doc.StructureIssues() {
			printer.Error(fmt.Sprintf("%s: %s", cs.Sys.Name, issue))
			ok = false
		}
		if !ok {
			failed++
		}
		printer.SystemDone(cs.Sys.Name, len(tree), ok)
	}

	if failed > 0 {
		return fmt.Errorf("%d system(s) failed verification", failed)
	}
	return nil
}
