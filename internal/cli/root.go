package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chrissnell/reservoirops/internal/constants"
	"github.com/chrissnell/reservoirops/internal/log"
	"github.com/chrissnell/reservoirops/pkg/config"
)

type globalOptions struct {
	configFile string
	envFile    string
	debug      bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          constants.AppName,
		Short:        "Reservoir water-level simulation and operating envelopes",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return log.Init(opts.debug)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			log.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "reservoirops.yaml", "path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "optional dotenv file with RESERVOIROPS_* overrides")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "turn on debugging output")

	cmd.AddCommand(
		newEnvelopeCmd(opts),
		newSimulateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *globalOptions) loadConfig() (*config.ConfigData, error) {
	filename, err := filepath.Abs(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config path %q: %w", o.configFile, err)
	}

	cfg, err := config.Load(config.NewYAMLProvider(filename), config.LoadOptions{EnvFile: o.envFile})
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the --config flag? Run with -h for help: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.Version)
		},
	}
}
