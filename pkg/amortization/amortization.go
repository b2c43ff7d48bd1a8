// Package amortization computes level-payment loan amortization schedules.
//
// Compute is a pure function: it performs no I/O, keeps no state between calls
// and never fails. Degenerate inputs produce an empty Result.
package amortization

import (
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
)

// Input holds the four scalars a schedule is computed from.
type Input struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureYears       float64 `json:"tenureYears"`
	PeriodsPerYear    int     `json:"periodsPerYear"`
}

// Row is one payment period of a schedule. Period is 1-indexed.
type Row struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Result is the computed schedule and its totals.
type Result struct {
	PaymentPerPeriod float64 `json:"paymentPerPeriod"`
	TotalPaid        float64 `json:"totalPaid"`
	TotalInterest    float64 `json:"totalInterest"`
	Rows             []Row   `json:"rows"`
}

// Valid reports whether the input yields a non-empty schedule.
func (in Input) Valid() bool {
	if math.IsInf(in.Principal, 0) || math.IsInf(in.AnnualRatePercent, 1) {
		return false
	}
	return in.Principal > 0 && in.TenureYears > 0 && in.PeriodsPerYear > 0 && TotalPeriods(in) > 0
}

// Finite reports whether every amount in the result is a finite number. A
// principal near the float64 limit can still overflow the running totals.
func (r Result) Finite() bool {
	for _, v := range []float64{r.PaymentPerPeriod, r.TotalPaid, r.TotalInterest} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TotalPeriods is round(tenureYears * periodsPerYear). Rounding rather than
// truncation keeps 4 years quarterly at 16 periods.
func TotalPeriods(in Input) int {
	if in.TenureYears <= 0 || in.PeriodsPerYear <= 0 {
		return 0
	}
	n := math.Round(in.TenureYears * float64(in.PeriodsPerYear))
	if math.IsNaN(n) || n <= 0 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// PeriodicRate converts the nominal annual percentage into the rate applied once
// per period. Zero and negative rates both mean no interest.
func PeriodicRate(annualRatePercent float64, periodsPerYear int) float64 {
	if !(annualRatePercent > 0) || periodsPerYear <= 0 {
		return 0
	}
	return (annualRatePercent / constants.PercentageMultiplier) / float64(periodsPerYear)
}

// LevelPayment is the fixed payment that retires principal over n periods at the
// periodic rate r. With r == 0 it is a straight-line division.
//
// The discount form p*r / (1 - (1+r)^-n) tends to p*r as (1+r)^n grows, so very
// high rates degrade to interest-only payments instead of Inf/Inf.
func LevelPayment(principal, r float64, n int) float64 {
	if n <= 0 || !(principal > 0) {
		return 0
	}
	if r == 0 {
		return principal / float64(n)
	}
	discount := math.Pow(1+r, -float64(n))
	if discount == 1 {
		// r is below float resolution
		return principal / float64(n)
	}
	return principal * r / (1 - discount)
}

// Compute builds the full amortization schedule for in.
//
// The final period pays off whatever balance remains, so the last row always
// ends at exactly zero and its payment may differ from PaymentPerPeriod.
func Compute(in Input) Result {
	if !in.Valid() {
		return Result{Rows: []Row{}}
	}

	n := TotalPeriods(in)
	r := PeriodicRate(in.AnnualRatePercent, in.PeriodsPerYear)
	payment := LevelPayment(in.Principal, r, n)

	result := Result{
		PaymentPerPeriod: payment,
		Rows:             make([]Row, 0, n),
	}

	balance := in.Principal
	for period := 1; period <= n; period++ {
		interest := balance * r
		principal := payment - interest
		amount := payment
		if period == n {
			principal = balance
			amount = principal + interest
		}

		balance = math.Max(balance-principal, 0)

		result.TotalPaid += amount
		result.TotalInterest += interest
		result.Rows = append(result.Rows, Row{
			Period:    period,
			Payment:   amount,
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return result
}
