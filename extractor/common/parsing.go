package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// MonthNumber resolves a 3-letter month abbreviation, case-insensitively.
func MonthNumber(abbr string) (time.Month, bool) {
	m, ok := months[strings.ToUpper(abbr)]
	return m, ok
}

// CleanAmount strips thousands separators and currency symbols from a
// monetary token, keeping any leading sign: "-$1,234.56" becomes "-1234.56".
func CleanAmount(token string) string {
	token = strings.ReplaceAll(token, ",", "")
	token = strings.ReplaceAll(token, "$", "")
	return strings.TrimSpace(token)
}

// AmountValue parses a monetary token into a decimal for comparison.
func AmountValue(token string) (decimal.Decimal, error) {
	return decimal.NewFromString(CleanAmount(token))
}

// FormatDate renders a normalized MON-DD-YYYY date string.
func FormatDate(monthAbbr string, day, year int) string {
	return fmt.Sprintf("%s-%02d-%d", strings.ToUpper(monthAbbr), day, year)
}

var (
	fourDigitYear = regexp.MustCompile(`(\d{4})`)
	twoDigitYear  = regexp.MustCompile(`/(\d{2})`)
)

// StatementYear derives the year transactions are dated with from a parsed
// statement period. A 4-digit year wins, then a 2-digit year embedded in a
// date token, then the current processing year as a silent default.
func StatementYear(period string) int {
	if m := fourDigitYear.FindStringSubmatch(period); m != nil {
		var year int
		fmt.Sscanf(m[1], "%d", &year)
		return year
	}
	if m := twoDigitYear.FindStringSubmatch(period); m != nil {
		var year int
		fmt.Sscanf(m[1], "%d", &year)
		return 2000 + year
	}
	return time.Now().Year()
}

// RollYear adjusts a transaction's year across a statement boundary: a
// January transaction on a December statement belongs to the next year, a
// December transaction on a January statement to the previous one.
func RollYear(txMonth, statementMonth time.Month, statementYear int) int {
	switch {
	case txMonth == time.January && statementMonth == time.December:
		return statementYear + 1
	case txMonth == time.December && statementMonth == time.January:
		return statementYear - 1
	default:
		return statementYear
	}
}
