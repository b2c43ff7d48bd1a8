package commands

import (
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/internal/schedule"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// calc: amortize a single loan given on the command line.
func calcCmd(opts *rootOptions) *cobra.Command {
	var (
		principal string
		rate      string
		tenure    string
		freq      string
		start     string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the amortization schedule for one loan",
		Example: `  amortize calc --principal 200,000 --rate 10% --tenure 4 --frequency quarterly
  amortize calc --principal 350000 --rate 6.25 --tenure 30 --start 2025-01 --output-format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initializeLogger(config.LoggingConfig{}, opts.logLevel)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat, err := opts.resolveOutputFormat("")
			if err != nil {
				return err
			}

			loan := config.Loan{
				Name:              "calculator",
				Active:            true,
				Principal:         principal,
				AnnualRatePercent: rate,
				TenureYears:       tenure,
				Frequency:         freq,
				StartDate:         start,
			}

			s, err := schedule.Compute(logger, loan, opts.maxPeriods)
			if err != nil {
				logger.Error("failed to compute schedule",
					zap.String("op", "commands.calc"),
					zap.Error(err),
				)
				return err
			}

			f := opts.formatter(logger, config.OutputConfig{}, "")
			return output.Write(cmd.OutOrStdout(), outputFormat, []schedule.Schedule{s}, f)
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "amount borrowed; separators, currency symbols allowed")
	cmd.Flags().StringVar(&rate, "rate", "0", "nominal annual interest rate in percent")
	cmd.Flags().StringVar(&tenure, "tenure", "", "loan term in years; fractions allowed")
	cmd.Flags().StringVar(&freq, "frequency", "monthly", "annually, biannually, quarterly, monthly or payments per year")
	cmd.Flags().StringVar(&start, "start", "", "first due date as YYYY-MM")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("tenure")
	return cmd
}
