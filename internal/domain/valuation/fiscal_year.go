package valuation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
)

var fiscalYearLabelRegex = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// FiscalYear is an April 1 to March 31 accounting period identified by the
// calendar year it starts in
type FiscalYear struct {
	StartYear int
}

// FiscalYearOf returns the fiscal year containing the date
func FiscalYearOf(d civil.Date) FiscalYear {
	if d.Month >= time.April {
		return FiscalYear{StartYear: d.Year}
	}
	return FiscalYear{StartYear: d.Year - 1}
}

// ParseFiscalYear parses a "YYYY-YY" label whose suffix is the two-digit
// year after YYYY
func ParseFiscalYear(label string) (FiscalYear, error) {
	m := fiscalYearLabelRegex.FindStringSubmatch(label)
	if m == nil {
		return FiscalYear{}, shared.NewDomainError(ErrInvalidFiscalYearLabel.Code,
			fmt.Sprintf("Invalid financial year label %q: expected YYYY-YY", label))
	}
	year, _ := strconv.Atoi(m[1])
	suffix, _ := strconv.Atoi(m[2])
	if suffix != (year+1)%100 {
		return FiscalYear{}, shared.NewDomainError(ErrInvalidFiscalYearLabel.Code,
			fmt.Sprintf("Invalid financial year label %q: %02d does not follow %d", label, suffix, year))
	}
	return FiscalYear{StartYear: year}, nil
}

// Label returns the "YYYY-YY" form
func (fy FiscalYear) Label() string {
	return fmt.Sprintf("%d-%02d", fy.StartYear, (fy.StartYear+1)%100)
}

// String implements fmt.Stringer
func (fy FiscalYear) String() string {
	return fy.Label()
}

// Start returns April 1 of the fiscal year
func (fy FiscalYear) Start() civil.Date {
	return civil.Date{Year: fy.StartYear, Month: time.April, Day: 1}
}

// End returns March 31 closing the fiscal year
func (fy FiscalYear) End() civil.Date {
	return civil.Date{Year: fy.StartYear + 1, Month: time.March, Day: 31}
}

// Next returns the following fiscal year
func (fy FiscalYear) Next() FiscalYear {
	return FiscalYear{StartYear: fy.StartYear + 1}
}

// Contains reports whether d falls inside the fiscal year
func (fy FiscalYear) Contains(d civil.Date) bool {
	return !d.Before(fy.Start()) && !d.After(fy.End())
}

// DaysInYear is the day-count denominator for the year: 366 when the
// calendar year the fiscal year starts in is a leap year, 365 otherwise
func (fy FiscalYear) DaysInYear() int {
	return DaysInYear(fy.StartYear)
}

// DaysInYear returns 366 for leap years and 365 otherwise
func DaysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// InclusiveDays counts the days from from to to, both ends included.
// It returns 0 when to is before from.
func InclusiveDays(from, to civil.Date) int {
	if to.Before(from) {
		return 0
	}
	return to.DaysSince(from) + 1
}

// FinancialYearOf maps a calendar date to its fiscal-year label
func FinancialYearOf(d civil.Date) string {
	return FiscalYearOf(d).Label()
}

// StartOf returns the first day of the labelled fiscal year
func StartOf(label string) (civil.Date, error) {
	fy, err := ParseFiscalYear(label)
	if err != nil {
		return civil.Date{}, err
	}
	return fy.Start(), nil
}

// EndOf returns the last day of the labelled fiscal year
func EndOf(label string) (civil.Date, error) {
	fy, err := ParseFiscalYear(label)
	if err != nil {
		return civil.Date{}, err
	}
	return fy.End(), nil
}

// Next returns the label of the fiscal year after label
func Next(label string) (string, error) {
	fy, err := ParseFiscalYear(label)
	if err != nil {
		return "", err
	}
	return fy.Next().Label(), nil
}

// Range expands an inclusive span of labels by repeated Next
func Range(start, end string) ([]string, error) {
	from, err := ParseFiscalYear(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseFiscalYear(end)
	if err != nil {
		return nil, err
	}
	if from.StartYear > to.StartYear {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Start financial year %s is after end financial year %s", start, end))
	}

	labels := make([]string, 0, to.StartYear-from.StartYear+1)
	for fy := from; fy.StartYear <= to.StartYear; fy = fy.Next() {
		labels = append(labels, fy.Label())
	}
	return labels, nil
}

// FiscalYearsTouching lists the fiscal years overlapping [from, to] in order
func FiscalYearsTouching(from, to civil.Date) []FiscalYear {
	if to.Before(from) {
		return nil
	}
	last := FiscalYearOf(to)
	var years []FiscalYear
	for fy := FiscalYearOf(from); fy.StartYear <= last.StartYear; fy = fy.Next() {
		years = append(years, fy)
	}
	return years
}
