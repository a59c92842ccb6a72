package domain

import (
	"fmt"
	"strings"
)

// Quarter is a fiscal or calendar quarter, Q1 through Q4.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// ParseQuarter normalizes strings like "q2" to a Quarter value.
func ParseQuarter(s string) (Quarter, error) {
	q := Quarter(strings.ToUpper(strings.TrimSpace(s)))
	switch q {
	case Q1, Q2, Q3, Q4:
		return q, nil
	}
	return "", fmt.Errorf("invalid quarter %q", s)
}

var calendarQuarters = map[string]Quarter{
	"Jan": Q1, "Feb": Q1, "Mar": Q1,
	"Apr": Q2, "May": Q2, "Jun": Q2,
	"Jul": Q3, "Aug": Q3, "Sep": Q3,
	"Oct": Q4, "Nov": Q4, "Dec": Q4,
}

// Fiscal years here follow the July-start convention common to the covered
// companies, so July opens Q1.
var fiscalQuarters = map[string]Quarter{
	"Jul": Q1, "Aug": Q1, "Sep": Q1,
	"Oct": Q2, "Nov": Q2, "Dec": Q2,
	"Jan": Q3, "Feb": Q3, "Mar": Q3,
	"Apr": Q4, "May": Q4, "Jun": Q4,
}

// QuarterOfMonth maps a three-letter month abbreviation to its quarter.
// The second return value is false for unknown months.
func QuarterOfMonth(month string, fiscal bool) (Quarter, bool) {
	table := calendarQuarters
	if fiscal {
		table = fiscalQuarters
	}
	q, ok := table[month]
	return q, ok
}

var monthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// QuarterOfFilename re-derives the quarter from the month abbreviation
// embedded anywhere in a transcript filename. Months are probed in calendar
// order; filenames with no recognizable month yield "".
func QuarterOfFilename(filename string, fiscal bool) Quarter {
	for _, mon := range monthOrder {
		if strings.Contains(filename, mon) {
			q, _ := QuarterOfMonth(mon, fiscal)
			return q
		}
	}
	return ""
}
