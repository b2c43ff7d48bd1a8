package commands

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/coerce"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/simpleinterest"
	"github.com/spf13/cobra"
)

// simple: flat-rate interest illustration for a short loan.
func simpleCmd(opts *rootOptions) *cobra.Command {
	var (
		amount string
		rate   string
		months string
	)

	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Illustrate flat-rate interest on a loan repaid monthly",
		Args:  cobra.NoArgs,
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

			illustration := simpleinterest.Compute(coerce.Number(amount), coerce.Number(rate), coerce.Int(months))
			out := cmd.OutOrStdout()

			switch outputFormat {
			case constants.OutputFormatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(illustration)
			case constants.OutputFormatCSV:
				_, err := fmt.Fprintf(out, "amount,annual rate percent,months,total interest,total repayment,monthly payment\n%s,%g,%d,%s,%s,%s\n",
					format.Fixed(illustration.Amount), illustration.AnnualRatePercent, illustration.TenureMonths,
					format.Fixed(illustration.TotalInterest), format.Fixed(illustration.TotalRepayment), format.Fixed(illustration.MonthlyPayment))
				return err
			}

			f := opts.formatter(logger, config.OutputConfig{}, "")
			_, err = fmt.Fprintf(out, "Amount: %s\nInterest: %s\nTotal repayment: %s\nMonthly payment over %d months: %s\n",
				f.Currency(illustration.Amount),
				f.Currency(illustration.TotalInterest),
				f.Currency(illustration.TotalRepayment),
				illustration.TenureMonths,
				f.Currency(illustration.MonthlyPayment))
			return err
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount borrowed")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual interest rate in percent")
	cmd.Flags().StringVar(&months, "months", "", "repayment period in months")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}
