package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs from the ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.LedgerPath == "" {
		return fmt.Errorf("no ledger configured (set ledger_path)")
	}

	led, err := ledger.Open(cmd.Context(), cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer led.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := led.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPERSON\tSYSTEM\tSTATUS\tWARNINGS\tROUND TRIP")
	for _, r := range runs {
		verdict := "ok"
		if !r.RoundTripOK {
			verdict = "-"
		}
		status := r.Status
		if r.Error != "" {
			status = fmt.Sprintf("%s (%s)", r.Status, r.Error)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Person, r.System, status, r.Warnings, verdict)
	}
	return w.Flush()
}
