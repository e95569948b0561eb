package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrissnell/reservoirops/internal/app"
	"github.com/chrissnell/reservoirops/internal/log"
	"github.com/chrissnell/reservoirops/pkg/config"
)

func newEnvelopeCmd(opts *globalOptions) *cobra.Command {
	var (
		output  string
		format  string
		workers int
		modes   []string
	)

	cmd := &cobra.Command{
		Use:   "envelope",
		Short: "Simulate every scenario over every complete year and write the level envelopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output.Path = output
			}
			if flags.Changed("format") {
				cfg.Output.Format = format
			}
			if flags.Changed("workers") {
				cfg.Simulation.Workers = workers
			}
			if flags.Changed("mode") {
				cfg.Simulation.Modes = modes
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(cfg, log.Named("app"))
			a.Stdout = cmd.OutOrStdout()
			_, err = a.Run(ctx)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: csv, json or msgpack")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "years simulated in parallel, 0 for one per CPU")
	cmd.Flags().StringSliceVarP(&modes, "mode", "m", nil, "envelope modes: upper, lower, mean")
	return cmd
}
