// Package output provides utilities for formatting and displaying amortization
// schedules.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/amortize/internal/schedule"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/mathutil"
)

// Write renders schedules in the named output format.
func Write(w io.Writer, outputFormat string, schedules []schedule.Schedule, f *format.Formatter) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, schedules, f)
	case constants.OutputFormatCSV:
		return CsvFormat(w, schedules)
	case constants.OutputFormatJSON:
		return JSONFormat(w, schedules)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, schedules []schedule.Schedule, f *format.Formatter) error {
	for i, s := range schedules {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "--- Amortization schedule for loan %s ---\n", s.Name)
		fmt.Fprintf(w, "Principal: %s at %s%% over %s years, %s\n",
			f.Currency(s.Input.Principal),
			strconv.FormatFloat(s.Input.AnnualRatePercent, 'f', -1, 64),
			strconv.FormatFloat(s.Input.TenureYears, 'f', -1, 64),
			describeFrequency(s))

		if len(s.Result.Rows) == 0 {
			fmt.Fprintln(w, "No payments: principal, tenure and frequency must all be positive")
			continue
		}

		fmt.Fprintf(w, "Payment per period: %s\n", f.Currency(s.Result.PaymentPerPeriod))
		fmt.Fprintf(w, "Total paid: %s\n", f.Currency(s.Result.TotalPaid))
		fmt.Fprintf(w, "Total interest: %s (%s%% of total paid)\n", f.Currency(s.Result.TotalInterest),
			f.Number(mathutil.Round(mathutil.CalculatePercentage(s.Result.TotalInterest, s.Result.TotalPaid))))

		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
		withDates := len(s.DueDates) == len(s.Result.Rows)
		if withDates {
			fmt.Fprint(tw, "Period\tDue\tPayment\tPrincipal\tInterest\tBalance\t\n")
		} else {
			fmt.Fprint(tw, "Period\tPayment\tPrincipal\tInterest\tBalance\t\n")
		}
		for j, row := range s.Result.Rows {
			fmt.Fprintf(tw, "%s\t", f.Count(row.Period))
			if withDates {
				fmt.Fprintf(tw, "%s\t", s.DueDates[j])
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
				f.Currency(row.Payment), f.Currency(row.Principal), f.Currency(row.Interest), f.Currency(row.Balance))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func describeFrequency(s schedule.Schedule) string {
	if s.Frequency.Standard() {
		return s.Frequency.String()
	}
	if s.Frequency <= 0 {
		return "invalid frequency"
	}
	return fmt.Sprintf("%d payments per year", s.Frequency.PeriodsPerYear())
}

// CsvFormat outputs one row per payment across all schedules in comma-separated
// value format. Amounts carry two decimals and no grouping.
func CsvFormat(w io.Writer, schedules []schedule.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"loan", "period", "due date", "payment", "principal", "interest", "balance"}); err != nil {
		return err
	}
	for _, s := range schedules {
		for j, row := range s.Result.Rows {
			due := ""
			if j < len(s.DueDates) {
				due = s.DueDates[j]
			}
			record := []string{
				s.Name,
				strconv.Itoa(row.Period),
				due,
				format.Fixed(row.Payment),
				format.Fixed(row.Principal),
				format.Fixed(row.Interest),
				format.Fixed(row.Balance),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the schedules as an indented JSON array with full precision.
func JSONFormat(w io.Writer, schedules []schedule.Schedule) error {
	if schedules == nil {
		schedules = []schedule.Schedule{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(schedules)
}
