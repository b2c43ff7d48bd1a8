// Package commands implements the amortize command line.
package commands

import (
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X ...commands.Version=v1.0.0".
var Version = "dev"

type rootOptions struct {
	logLevel     string
	outputFormat string
	locale       string
	currency     string
	maxPeriods   int
}

// Execute runs the amortize command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "amortize",
		Short:        "Loan amortization schedules and repayment illustrations",
		Version:      Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.outputFormat, "output-format", "", "output format override: pretty, csv, json")
	root.PersistentFlags().StringVar(&opts.locale, "locale", "", "locale for digit grouping in pretty output (e.g. en, de-DE)")
	root.PersistentFlags().StringVar(&opts.currency, "currency", "", "currency symbol for pretty output")
	root.PersistentFlags().IntVar(&opts.maxPeriods, "max-periods", constants.DefaultMaxPeriods, "refuse schedules longer than this many payments")

	root.AddCommand(calcCmd(opts), simpleCmd(opts), runCmd(opts), serveCmd(opts))
	return root
}

// resolveOutputFormat applies the CLI override over the configured format.
func (o *rootOptions) resolveOutputFormat(configured string) (string, error) {
	outputFormat := configured
	if o.outputFormat != "" {
		outputFormat = o.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

// formatter builds the pretty-output formatter. An unusable locale falls back
// to English with a warning.
func (o *rootOptions) formatter(logger *zap.Logger, output config.OutputConfig, currency string) *format.Formatter {
	locale := output.Locale
	if o.locale != "" {
		locale = o.locale
	}
	if o.currency != "" {
		currency = o.currency
	}

	tag, err := format.ParseLocale(locale)
	if err != nil {
		logger.Warn("falling back to English number formatting",
			zap.String("op", "commands.formatter"),
			zap.Error(err),
		)
		tag, _ = format.ParseLocale("")
	}
	return format.NewFormatter(tag, currency)
}
