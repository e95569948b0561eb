package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrissnell/reservoirops/internal/app"
	"github.com/chrissnell/reservoirops/internal/log"
	"github.com/chrissnell/reservoirops/internal/simulate"
)

func newSimulateCmd(opts *globalOptions) *cobra.Command {
	var (
		scenario string
		year     int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a single hydrological year and show both passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			res, err := app.New(cfg, log.Named("app")).SimulateYear(scenario, year)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario name, defaults to the first configured")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "index of the complete hydrological year to simulate")
	return cmd
}

func printResult(w io.Writer, res *simulate.Result) error {
	fmt.Fprintf(w, "year %d (%d), target %g\n", res.Year, res.StartYear, res.Target)
	if res.Forward.StoppedAt >= 0 {
		fmt.Fprintf(w, "forward pass reached the ceiling at %s\n", res.Combined[res.Forward.StoppedAt].Label)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "period\tforward\tbackward\tlevel\t")
	for i, p := range res.Combined {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t\n",
			p.Label,
			level(res.Forward, i),
			level(res.Backward, i),
			p.Level)
	}
	return tw.Flush()
}

func level(p simulate.Pass, i int) string {
	if !p.Recorded[i] {
		return "-"
	}
	return strconv.FormatFloat(p.Levels[i], 'f', 3, 64)
}
