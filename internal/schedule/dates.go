package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthAbbrevs maps the portal's 3-letter month tokens to calendar months.
var monthAbbrevs = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// MonthFromAbbrev resolves a 3-letter month abbreviation (any case).
func MonthFromAbbrev(abbrev string) (time.Month, bool) {
	m, ok := monthAbbrevs[strings.ToLower(abbrev)]
	return m, ok
}

// ParseDayMonthToken splits a raw date token of the form "<day><Mon>",
// e.g. "08Dec" or "8Dec".
func ParseDayMonthToken(token string) (day int, month time.Month, err error) {
	token = strings.TrimSpace(token)
	if len(token) < 4 {
		return 0, 0, fmt.Errorf("date token %q too short", token)
	}
	abbrev := token[len(token)-3:]
	month, ok := MonthFromAbbrev(abbrev)
	if !ok {
		return 0, 0, fmt.Errorf("date token %q: unknown month %q", token, abbrev)
	}
	day, err = strconv.Atoi(token[:len(token)-3])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("date token %q: bad day", token)
	}
	return day, month, nil
}

// ResolveDate computes the ISO date for a day+month token against the
// session's display context. The year rolls forward by one only when the
// displayed month is December and the token month is January or February;
// every other combination keeps the context year.
func ResolveDate(day int, month time.Month, ctxYear int, ctxMonth time.Month) string {
	year := ctxYear
	if ctxMonth == time.December && (month == time.January || month == time.February) {
		year++
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ResolveDateToken parses a "<day><Mon>" token and resolves it to an ISO date
// in one step.
func ResolveDateToken(token string, ctxYear int, ctxMonth time.Month) (string, error) {
	day, month, err := ParseDayMonthToken(token)
	if err != nil {
		return "", err
	}
	return ResolveDate(day, month, ctxYear, ctxMonth), nil
}
