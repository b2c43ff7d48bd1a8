// Package format renders amounts for display. Amounts are rounded half away from
// zero on their shortest decimal representation, so 1.235 shows as 1.24, and
// grouped according to the display locale.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered in place of NaN and infinite amounts.
const NotAvailable = "n/a"

func finite(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// Cents rounds amount to currency precision. NaN and infinite amounts have no
// decimal representation and yield zero.
func Cents(amount float64) decimal.Decimal {
	if !finite(amount) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Round(constants.CurrencyPlaces)
}

// Fixed returns amount with exactly two decimals and no separators (e.g., "-1234.56").
func Fixed(amount float64) string {
	if !finite(amount) {
		return NotAvailable
	}
	return Cents(amount).StringFixed(constants.CurrencyPlaces)
}

// ParseLocale resolves a BCP 47 tag such as "en" or "de-DE". An empty value is English.
func ParseLocale(locale string) (language.Tag, error) {
	if locale == "" {
		return language.English, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// Formatter renders amounts for one locale and currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter. An empty symbol falls back to "$".
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Currency returns amount with the symbol and locale grouping (e.g., "-$1,234.56").
func (f *Formatter) Currency(amount float64) string {
	if !finite(amount) {
		return NotAvailable
	}
	cents := Cents(amount)
	if cents.IsNegative() {
		return "-" + f.symbol + f.number(cents.Abs())
	}
	return f.symbol + f.number(cents)
}

// Number returns amount with locale grouping and no symbol (e.g., "-1,234.56").
func (f *Formatter) Number(amount float64) string {
	if !finite(amount) {
		return NotAvailable
	}
	cents := Cents(amount)
	if cents.IsNegative() {
		return "-" + f.number(cents.Abs())
	}
	return f.number(cents)
}

// Count groups an integer (e.g., "1,560").
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

func (f *Formatter) number(value decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", value.InexactFloat64())
}

// Currency formats amount in English with the given symbol.
func Currency(amount float64, symbol string) string {
	return NewFormatter(language.English, symbol).Currency(amount)
}
