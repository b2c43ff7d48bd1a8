// Package simpleinterest illustrates the repayment of a loan product that charges
// flat interest on the original amount, as opposed to the declining-balance
// schedule of package amortization. The two models give different totals.
package simpleinterest

import (
	"github.com/iwvelando/amortize/pkg/constants"
)

// Illustration summarizes a flat-interest loan.
type Illustration struct {
	Amount            float64 `json:"amount"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TenureMonths      int     `json:"tenureMonths"`
	TotalInterest     float64 `json:"totalInterest"`
	TotalRepayment    float64 `json:"totalRepayment"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
}

// Compute returns amount × rate × tenureMonths/12 as interest, spread evenly
// across the months. A non-positive amount or tenure yields an all-zero
// illustration; a non-positive rate yields no interest.
func Compute(amount, annualRatePercent float64, tenureMonths int) Illustration {
	if !(amount > 0) || tenureMonths <= 0 {
		return Illustration{}
	}

	rate := annualRatePercent
	if !(rate > 0) {
		rate = 0
	}

	interest := amount * (rate / constants.PercentageMultiplier) * (float64(tenureMonths) / constants.MonthsPerYear)
	total := amount + interest

	return Illustration{
		Amount:            amount,
		AnnualRatePercent: rate,
		TenureMonths:      tenureMonths,
		TotalInterest:     interest,
		TotalRepayment:    total,
		MonthlyPayment:    total / float64(tenureMonths),
	}
}
