package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jatakam/dashatree/internal/dasha"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List the supported dasha systems",
	RunE:  runSystems,
}

func init() {
	rootCmd.AddCommand(systemsCmd)
}

func runSystems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tBRANCHING\tSPAN\tUNITS")
	for _, sys := range []dasha.System{dasha.Vimsottari(), dasha.KNRaoChara()} {
		span := "chart-specific"
		if sys.TotalSpanYears > 0 {
			span = fmt.Sprintf("%g years", sys.TotalSpanYears)
		}
		units := make([]string, 0, sys.Names.Len())
		for u := 0; u < sys.Names.Len(); u++ {
			units = append(units, sys.Names.Short(dasha.Unit(u)))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", sys.Name, sys.Branching, span, strings.Join(units, " "))
	}
	return w.Flush()
}
