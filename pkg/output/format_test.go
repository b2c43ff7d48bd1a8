package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/amortize/internal/schedule"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/frequency"
	"golang.org/x/text/language"
)

func testSchedules() []schedule.Schedule {
	quarterly := amortization.Input{Principal: 1000, AnnualRatePercent: 12, TenureYears: 1, PeriodsPerYear: 4}
	monthly := amortization.Input{Principal: 200000, AnnualRatePercent: 10, TenureYears: 4.0 / 12, PeriodsPerYear: 12}
	return []schedule.Schedule{
		{
			Name:      "Quarterly",
			Frequency: frequency.Quarterly,
			Input:     quarterly,
			Result:    amortization.Compute(quarterly),
			DueDates:  []string{"2025-01", "2025-04", "2025-07", "2025-10"},
		},
		{
			Name:      "Product",
			Frequency: frequency.Monthly,
			Input:     monthly,
			Result:    amortization.Compute(monthly),
		},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testSchedules(), format.NewFormatter(language.English, "$")); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Amortization schedule for loan Quarterly ---",
		"Principal: $1,000.00 at 12% over 1 years, quarterly",
		"Payment per period: $269.03",
		"Due",
		"2025-10",
		"--- Amortization schedule for loan Product ---",
		"Payment per period: $51,045.99",
		"Total paid: $204,183.96",
		"Total interest: $4,183.96 (2.05% of total paid)",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat() output missing %q\n%s", want, output)
		}
	}

	// Only the first schedule has due dates, so the header appears once.
	if strings.Count(output, "Due") != 1 {
		t.Errorf("expected one Due column, got output:\n%s", output)
	}
}

func TestPrettyFormatEmptySchedule(t *testing.T) {
	schedules := []schedule.Schedule{{Name: "Nothing", Result: amortization.Compute(amortization.Input{})}}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, schedules, format.NewFormatter(language.English, "")); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No payments") {
		t.Errorf("PrettyFormat() should explain an empty schedule, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "invalid frequency") {
		t.Errorf("PrettyFormat() should flag the zero frequency, got %q", buf.String())
	}
}

func TestPrettyFormatLocale(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testSchedules()[1:], format.NewFormatter(language.German, "€")); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "€51.045,99") {
		t.Errorf("PrettyFormat() did not use German grouping:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, testSchedules()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat() produced unreadable CSV: %v", err)
	}
	if len(records) != 1+4+4 {
		t.Fatalf("CsvFormat() wrote %d records, expected 9", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "loan,period,due date,payment,principal,interest,balance" {
		t.Errorf("unexpected header %q", header)
	}

	first := records[1]
	if first[0] != "Quarterly" || first[1] != "1" || first[2] != "2025-01" || first[3] != "269.03" || first[5] != "30.00" {
		t.Errorf("unexpected first record %v", first)
	}

	lastQuarterly := records[4]
	if lastQuarterly[6] != "0.00" {
		t.Errorf("final balance = %s, expected 0.00", lastQuarterly[6])
	}

	product := records[5]
	if product[0] != "Product" || product[2] != "" {
		t.Errorf("unexpected product record %v", product)
	}
	if strings.Contains(product[3], ",") {
		t.Errorf("CSV amounts must not be grouped, got %s", product[3])
	}
}

func TestNonFiniteAmounts(t *testing.T) {
	schedules := []schedule.Schedule{{
		Name:      "Overflow",
		Frequency: frequency.Monthly,
		Input:     amortization.Input{Principal: 1e308, AnnualRatePercent: 12, TenureYears: 1.0 / 12, PeriodsPerYear: 12},
		Result: amortization.Result{
			PaymentPerPeriod: math.NaN(),
			TotalPaid:        math.Inf(1),
			TotalInterest:    math.Inf(1),
			Rows:             []amortization.Row{{Period: 1, Payment: math.Inf(1), Principal: math.NaN(), Interest: 1e306, Balance: 0}},
		},
	}}

	var pretty bytes.Buffer
	if err := PrettyFormat(&pretty, schedules, format.NewFormatter(language.English, "$")); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(pretty.String(), "Total paid: "+format.NotAvailable) {
		t.Errorf("expected non-finite total rendered as %s, got:\n%s", format.NotAvailable, pretty.String())
	}

	var buf bytes.Buffer
	if err := CsvFormat(&buf, schedules); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat() produced unreadable CSV: %v", err)
	}
	if records[1][3] != format.NotAvailable || records[1][4] != format.NotAvailable || records[1][6] != "0.00" {
		t.Errorf("unexpected record %v", records[1])
	}

	if err := JSONFormat(&bytes.Buffer{}, schedules); err == nil {
		t.Error("JSONFormat() expected an error for non-finite amounts")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testSchedules()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []struct {
		Name      string   `json:"name"`
		Frequency string   `json:"frequency"`
		DueDates  []string `json:"dueDates"`
		Result    struct {
			PaymentPerPeriod float64            `json:"paymentPerPeriod"`
			Rows             []amortization.Row `json:"rows"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSONFormat() produced invalid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(decoded))
	}
	if decoded[0].Frequency != "quarterly" {
		t.Errorf("frequency = %q, expected quarterly", decoded[0].Frequency)
	}
	if len(decoded[0].Result.Rows) != 4 || len(decoded[0].DueDates) != 4 {
		t.Errorf("unexpected row or due date count in %+v", decoded[0])
	}
	if decoded[1].DueDates != nil {
		t.Errorf("schedule without start date should omit dueDates")
	}

	buf.Reset()
	if err := JSONFormat(&buf, nil); err != nil {
		t.Fatalf("JSONFormat(nil) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("JSONFormat(nil) = %q, expected []", buf.String())
	}
}

func TestWrite(t *testing.T) {
	f := format.NewFormatter(language.English, "$")
	for _, name := range []string{"pretty", "csv", "json"} {
		var buf bytes.Buffer
		if err := Write(&buf, name, testSchedules(), f); err != nil {
			t.Errorf("Write(%s) error = %v", name, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) wrote nothing", name)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", testSchedules(), f); err == nil {
		t.Errorf("Write(xml) expected error")
	}
}
