package commands

import (
	"fmt"

	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/internal/schedule"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// run: amortize every active loan in a configuration file.
func runCmd(opts *rootOptions) *cobra.Command {
	var configLocation string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Print schedules for every active loan in a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}

			logger, err := initializeLogger(conf.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat, err := opts.resolveOutputFormat(conf.Output.Format)
			if err != nil {
				logger.Error(err.Error(),
					zap.String("op", "commands.run"),
				)
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "commands.run"),
				)
			}

			results, err := schedule.GetSchedules(logger, *conf, opts.maxPeriods)
			if err != nil {
				logger.Error("failed to compute schedules",
					zap.String("op", "commands.run"),
					zap.Error(err),
				)
				return err
			}

			f := opts.formatter(logger, conf.Output, conf.CurrencySymbol())
			return output.Write(cmd.OutOrStdout(), outputFormat, results, f)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	return cmd
}
