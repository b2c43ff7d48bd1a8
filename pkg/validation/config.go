// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/iwvelando/amortize/pkg/frequency"
	"github.com/iwvelando/amortize/pkg/mathutil"
)

// LoanConfig carries what ValidateLoan needs to know about a configured loan.
type LoanConfig struct {
	Name      string
	Input     amortization.Input
	Frequency interface{} // as written in the config, nil when omitted
	StartDate string
}

// ValidateLoan returns warnings for a loan that will compute but probably not
// the way its author intended.
func ValidateLoan(loan LoanConfig) []string {
	var warnings []string
	in := loan.Input

	if !in.Valid() {
		var problems []string
		if !(in.Principal > 0) {
			problems = append(problems, "principal must be positive")
		}
		if !(in.TenureYears > 0) {
			problems = append(problems, "tenure must be positive")
		}
		if in.PeriodsPerYear <= 0 {
			problems = append(problems, fmt.Sprintf("frequency %v is not a positive whole number or known name", loan.Frequency))
		}
		if len(problems) == 0 {
			problems = append(problems, "tenure is shorter than half a payment period")
		}
		return append(warnings, fmt.Sprintf("Loan '%s' will produce an empty schedule: %s",
			loan.Name, strings.Join(problems, "; ")))
	}

	if freq := frequency.Frequency(in.PeriodsPerYear); !freq.Standard() {
		names := make([]string, 0, 4)
		for _, f := range frequency.Supported() {
			names = append(names, f.String())
		}
		warnings = append(warnings, fmt.Sprintf("Loan '%s' uses %d payments per year; the calculator offers %s",
			loan.Name, in.PeriodsPerYear, strings.Join(names, ", ")))
	}

	if mathutil.IsZero(in.Principal) {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' principal of %g is less than one cent", loan.Name, in.Principal))
	}

	exact := in.TenureYears * float64(in.PeriodsPerYear)
	if !mathutil.WithinTolerance(exact, math.Round(exact), constants.RowTolerance) {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' tenure of %g years is %.2f payment periods, rounded to %d",
			loan.Name, in.TenureYears, exact, amortization.TotalPeriods(in)))
	}

	if !(in.AnnualRatePercent > 0) {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has no interest; payments are straight-line", loan.Name))
	}

	if loan.StartDate != "" {
		if err := datetime.ValidateDate(loan.StartDate); err != nil {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' %v", loan.Name, err))
		} else if frequency.Frequency(in.PeriodsPerYear).MonthsBetween() == 0 {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' payments are not a whole number of months apart; due dates will be omitted", loan.Name))
		}
	}

	return warnings
}
