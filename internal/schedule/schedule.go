// Package schedule computes the amortization schedules for every active loan
// in a configuration.
package schedule

import (
	"errors"
	"fmt"

	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/datetime"
	"github.com/iwvelando/amortize/pkg/frequency"
	"go.uber.org/zap"
)

var (
	// ErrNoActiveLoans is returned when a configuration has nothing to compute.
	ErrNoActiveLoans = errors.New("no active loans in configuration")

	// ErrTooManyPeriods is returned when a loan would need more rows than allowed.
	ErrTooManyPeriods = errors.New("schedule exceeds period limit")

	// ErrNotFinite is returned when a schedule's amounts overflow float64.
	ErrNotFinite = errors.New("schedule amounts are not finite")
)

// Schedule is the computed amortization of one configured loan.
type Schedule struct {
	Name      string              `json:"name"`
	Frequency frequency.Frequency `json:"frequency"`
	Input     amortization.Input  `json:"input"`
	Result    amortization.Result `json:"result"`
	DueDates  []string            `json:"dueDates,omitempty"` // DueDates[i] belongs to Result.Rows[i]
}

// GetSchedules computes a Schedule for each active loan, in configuration order.
// maxPeriods caps the rows of any one schedule; zero or less means
// constants.DefaultMaxPeriods.
func GetSchedules(logger *zap.Logger, conf config.Configuration, maxPeriods int) ([]Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Schedule
	for _, loan := range conf.Loans {
		if !loan.Active {
			logger.Debug(fmt.Sprintf("skipping loan %s because it is inactive", loan.Name),
				zap.String("op", "schedule.GetSchedules"),
			)
			continue
		}

		result, err := Compute(logger, loan, maxPeriods)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, ErrNoActiveLoans
	}
	return results, nil
}

// Compute amortizes a single loan. Due dates are attached when the loan has a
// start date and its payments fall a whole number of months apart.
func Compute(logger *zap.Logger, loan config.Loan, maxPeriods int) (Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxPeriods <= 0 {
		maxPeriods = constants.DefaultMaxPeriods
	}

	in := loan.Input()
	if n := amortization.TotalPeriods(in); n > maxPeriods {
		return Schedule{}, fmt.Errorf("loan %s: %w: %d periods, limit %d", loan.Name, ErrTooManyPeriods, n, maxPeriods)
	}

	s := Schedule{
		Name:      loan.Name,
		Frequency: frequency.Frequency(in.PeriodsPerYear),
		Input:     in,
		Result:    amortization.Compute(in),
	}
	if !s.Result.Finite() {
		logger.Warn(fmt.Sprintf("loan %s overflows float64", loan.Name),
			zap.String("op", "schedule.Compute"),
			zap.Float64("principal", in.Principal),
			zap.Float64("annualRatePercent", in.AnnualRatePercent),
		)
		return Schedule{}, fmt.Errorf("loan %s: %w", loan.Name, ErrNotFinite)
	}

	if len(s.Result.Rows) == 0 {
		logger.Warn(fmt.Sprintf("loan %s produced an empty schedule", loan.Name),
			zap.String("op", "schedule.Compute"),
			zap.Float64("principal", in.Principal),
			zap.Float64("tenureYears", in.TenureYears),
			zap.Int("periodsPerYear", in.PeriodsPerYear),
		)
	}

	if loan.StartDate == "" {
		return s, nil
	}

	months := s.Frequency.MonthsBetween()
	if months == 0 {
		logger.Warn(fmt.Sprintf("omitting due dates for loan %s", loan.Name),
			zap.String("op", "schedule.Compute"),
			zap.String("frequency", s.Frequency.String()),
		)
		return s, nil
	}

	dates, err := datetime.DueDates(loan.StartDate, months, len(s.Result.Rows))
	if err != nil {
		return s, fmt.Errorf("loan %s: %w", loan.Name, err)
	}
	s.DueDates = dates

	logger.Debug(fmt.Sprintf("computed %d payments for loan %s", len(s.Result.Rows), loan.Name),
		zap.String("op", "schedule.Compute"),
	)
	return s, nil
}
