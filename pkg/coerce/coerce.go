// Package coerce turns untrusted form values into the numbers the amortization
// engine expects. Anything that does not parse becomes 0, mirroring how a live
// form treats a half-typed field.
package coerce

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/frequency"
	"github.com/spf13/cast"
)

// Raw holds the four calculator fields as they arrive from a form, query string,
// JSON body or config file.
type Raw struct {
	Principal         interface{} `json:"principal" yaml:"principal" mapstructure:"principal"`
	AnnualRatePercent interface{} `json:"annualRatePercent" yaml:"annualRatePercent" mapstructure:"annualRatePercent"`
	TenureYears       interface{} `json:"tenureYears" yaml:"tenureYears" mapstructure:"tenureYears"`
	PeriodsPerYear    interface{} `json:"periodsPerYear" yaml:"periodsPerYear" mapstructure:"periodsPerYear"`
}

// Input coerces every field of raw. The result may well be degenerate; the
// engine answers that with an empty schedule.
func Input(raw Raw) amortization.Input {
	return amortization.Input{
		Principal:         Number(raw.Principal),
		AnnualRatePercent: Number(raw.AnnualRatePercent),
		TenureYears:       Number(raw.TenureYears),
		PeriodsPerYear:    PeriodsPerYear(raw.PeriodsPerYear),
	}
}

// Number parses value as a float64. Strings may carry surrounding whitespace,
// a currency symbol, thousands separators (",", "_", " ") or a trailing "%".
// Unparseable, NaN and infinite values yield 0.
func Number(value interface{}) float64 {
	var f float64
	var err error

	switch v := value.(type) {
	case nil:
		return 0
	case string:
		f, err = cast.ToFloat64E(clean(v))
	case json.Number:
		f, err = v.Float64()
	case bool:
		// A checkbox is not an amount.
		return 0
	default:
		f, err = cast.ToFloat64E(v)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// PeriodsPerYear accepts a frequency name or a whole positive number. Other
// values, including fractional ones, yield 0.
func PeriodsPerYear(value interface{}) int {
	if s, ok := value.(string); ok {
		if f, err := frequency.Parse(s); err == nil {
			return f.PeriodsPerYear()
		}
	}

	n := Number(value)
	if n <= 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Int parses value as a whole number, returning 0 for anything else.
func Int(value interface{}) int {
	n := Number(value)
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0
	}
	return int(n)
}

func clean(s string) string {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(trimmed, "%")
	return strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '_' || unicode.IsSpace(r):
			return -1
		case unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, trimmed)
}
