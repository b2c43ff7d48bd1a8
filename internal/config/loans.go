// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/coerce"
	"github.com/iwvelando/amortize/pkg/frequency"
	"github.com/iwvelando/amortize/pkg/validation"
)

// Loan describes one loan to amortize. The numeric fields accept numbers or
// strings and are coerced the same way a calculator form is.
type Loan struct {
	Name              string      `yaml:"name"`
	Active            bool        `yaml:"active"`
	Principal         interface{} `yaml:"principal"`
	AnnualRatePercent interface{} `yaml:"annualRatePercent"`
	TenureYears       interface{} `yaml:"tenureYears"`
	Frequency         interface{} `yaml:"frequency"`
	StartDate         string      `yaml:"startDate,omitempty"` // YYYY-MM of the first payment
}

// Input coerces the loan fields into engine input. A missing frequency means monthly.
func (loan Loan) Input() amortization.Input {
	freq := loan.Frequency
	if freq == nil {
		freq = int(frequency.Monthly)
	}
	return coerce.Input(coerce.Raw{
		Principal:         loan.Principal,
		AnnualRatePercent: loan.AnnualRatePercent,
		TenureYears:       loan.TenureYears,
		PeriodsPerYear:    freq,
	})
}

// PaymentFrequency returns the coerced frequency; 0 when it is invalid.
func (loan Loan) PaymentFrequency() frequency.Frequency {
	return frequency.Frequency(loan.Input().PeriodsPerYear)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Nothing here is fatal: degenerate loans simply produce
// empty schedules.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Loans) == 0 {
		warnings = append(warnings, "no loans configured")
	}

	seen := make(map[string]int)
	for i, loan := range c.Loans {
		name := loan.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Loan %s has no name", name))
		}
		seen[loan.Name]++
		if loan.Name != "" && seen[loan.Name] == 2 {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
		}

		if !loan.Active {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' is inactive and will be skipped", name))
			continue
		}

		warnings = append(warnings, validation.ValidateLoan(validation.LoanConfig{
			Name:      name,
			Input:     loan.Input(),
			Frequency: loan.Frequency,
			StartDate: loan.StartDate,
		})...)
	}

	if c.Output.Locale != "" {
		if err := validation.ValidateLocale(c.Output.Locale); err != nil {
			warnings = append(warnings, err.Error()+", falling back to en")
		}
	}

	return warnings
}
