// Package datetime provides month-granular date helpers for payment schedules.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/amortize/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// ValidateDate checks that date is in DateTimeLayout.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM: %w", date, err)
	}
	return nil
}

// DueDates lists n payment dates starting at start and spaced monthsBetween
// months apart. The first payment falls on start itself.
func DueDates(start string, monthsBetween, n int) ([]string, error) {
	if monthsBetween <= 0 {
		return nil, fmt.Errorf("payments must be at least one month apart, got %d", monthsBetween)
	}
	startT, err := time.Parse(DateTimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}

	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, startT.AddDate(0, i*monthsBetween, 0).Format(DateTimeLayout))
	}
	return dates, nil
}
