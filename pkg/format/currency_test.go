package format

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		symbol   string
		expected string
	}{
		{"Default symbol", 1234.56, "", "$1,234.56"},
		{"Naira", 206666.666666, "₦", "₦206,666.67"},
		{"Negative", -1234.5, "$", "-$1,234.50"},
		{"Small", 7.1, "€", "€7.10"},
		{"Zero", 0, "$", "$0.00"},
		{"Midpoint rounds away from zero", 1.235, "$", "$1.24"},
		{"Millions", 1234567.891, "$", "$1,234,567.89"},
		{"Negative rounding to zero", -0.001, "$", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.symbol); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %s, expected %s", tt.amount, tt.symbol, got, tt.expected)
			}
		})
	}
}

func TestFormatterLocales(t *testing.T) {
	english := NewFormatter(language.English, "₦")
	if got := english.Number(51045.98887546004); got != "51,045.99" {
		t.Errorf("Number() = %s, expected 51,045.99", got)
	}
	if got := english.Number(-999.999); got != "-1,000.00" {
		t.Errorf("Number() = %s, expected -1,000.00", got)
	}
	if got := english.Count(1560); got != "1,560" {
		t.Errorf("Count() = %s, expected 1,560", got)
	}

	german := NewFormatter(language.German, "€")
	if got := german.Currency(1234.5); got != "€1.234,50" {
		t.Errorf("German Currency() = %s, expected €1.234,50", got)
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{1234.5, "1234.50"},
		{0.005, "0.01"},
		{-2.675, "-2.68"},
		{0, "0.00"},
		{51045.98887546004, "51045.99"},
	}

	for _, tt := range tests {
		if got := Fixed(tt.amount); got != tt.expected {
			t.Errorf("Fixed(%v) = %s, expected %s", tt.amount, got, tt.expected)
		}
	}
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("")
	if err != nil || tag != language.English {
		t.Errorf("ParseLocale(\"\") = %v, %v, expected English", tag, err)
	}
	if _, err := ParseLocale("de-DE"); err != nil {
		t.Errorf("ParseLocale(de-DE) error = %v", err)
	}
	if _, err := ParseLocale("not a locale!"); err == nil {
		t.Errorf("ParseLocale() expected error for invalid tag")
	}
}

func TestNonFiniteAmounts(t *testing.T) {
	f := NewFormatter(language.English, "$")

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Fixed(amount); got != NotAvailable {
			t.Errorf("Fixed(%v) = %s, expected %s", amount, got, NotAvailable)
		}
		if got := f.Currency(amount); got != NotAvailable {
			t.Errorf("Currency(%v) = %s, expected %s", amount, got, NotAvailable)
		}
		if got := f.Number(amount); got != NotAvailable {
			t.Errorf("Number(%v) = %s, expected %s", amount, got, NotAvailable)
		}
		if !Cents(amount).IsZero() {
			t.Errorf("Cents(%v) = %s, expected 0", amount, Cents(amount))
		}
	}
}
