package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/dasha"
)

var parseCmd = &cobra.Command{
	Use:   "parse <rawtext.txt>",
	Short: "Parse serialized dasha text into nested JSON",
	Long: "Parse reads a raw dasha text file, reconstructs the period hierarchy, and\n" +
		"writes it as indented JSON to stdout. Structural warnings go to stderr; use\n" +
		"--strict to turn them into a non-zero exit.",
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("strict", false, "fail when the text produces structural warnings")
	parseCmd.Flags().Bool("summary", false, "include the summary-block entries in the output")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printer := newPrinter(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	doc := dasha.Parse(string(data))
	printer.ParseWarnings(doc.Warnings)

	dasas := doc.Detailed()
	if withSummary, _ := cmd.Flags().GetBool("summary"); withSummary {
		dasas = doc.Dasas
	}

	out := struct {
		SystemName string                `json:"dasha_system_name"`
		Dasas      []*dasha.ParsedPeriod `json:"dasas"`
	}{SystemName: doc.SystemName, Dasas: dasas}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && len(doc.Warnings) > 0 {
		return fmt.Errorf("%d structural warning(s)", len(doc.Warnings))
	}
	return nil
}
