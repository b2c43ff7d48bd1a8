// Package frequency names the payment frequencies offered by the calculator.
package frequency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Frequency is the number of payment periods per year.
type Frequency int

// Supported frequencies.
const (
	Annually   Frequency = 1
	Biannually Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
)

// ErrUnknown is returned for names and numbers that are not a frequency.
var ErrUnknown = errors.New("unknown payment frequency")

var names = map[Frequency]string{
	Annually:   "annually",
	Biannually: "biannually",
	Quarterly:  "quarterly",
	Monthly:    "monthly",
}

var aliases = map[string]Frequency{
	"annually":     Annually,
	"annual":       Annually,
	"yearly":       Annually,
	"biannually":   Biannually,
	"biannual":     Biannually,
	"semiannual":   Biannually,
	"semiannually": Biannually,
	"half-yearly":  Biannually,
	"quarterly":    Quarterly,
	"monthly":      Monthly,
}

// Supported returns the calculator's frequencies from least to most frequent.
func Supported() []Frequency {
	return []Frequency{Annually, Biannually, Quarterly, Monthly}
}

// PeriodsPerYear returns the frequency as a plain integer.
func (f Frequency) PeriodsPerYear() int {
	return int(f)
}

// Standard reports whether f is one of the calculator's enumerated frequencies.
func (f Frequency) Standard() bool {
	_, ok := names[f]
	return ok
}

// String returns the frequency name, or the bare number of periods for
// non-standard frequencies so that Parse can read it back.
func (f Frequency) String() string {
	if name, ok := names[f]; ok {
		return name
	}
	return strconv.Itoa(int(f))
}

// MonthsBetween returns how many months separate two payments, or 0 when a
// period is not a whole number of months.
func (f Frequency) MonthsBetween() int {
	if f <= 0 || 12%int(f) != 0 {
		return 0
	}
	return 12 / int(f)
}

// Parse accepts a frequency name ("monthly", "quarterly", ...) or any positive
// integer number of periods per year.
func Parse(value string) (Frequency, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrUnknown)
	}
	if f, ok := aliases[trimmed]; ok {
		return f, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknown, value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d periods per year", ErrUnknown, n)
	}
	return Frequency(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
