package parse

import (
	"strconv"
	"strings"
	"time"
)

// Date parses a YYYY-MM-DD form value.
func Date(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(raw))
}

// YearMonth decodes the year and month query parameters sent by the calendar
// widget. ok is false when either is missing, zero, "undefined" or not an
// integer; range checking is left to the calendar.
func YearMonth(yearRaw, monthRaw string) (year, month int, ok bool) {
	year, okY := queryInt(yearRaw)
	month, okM := queryInt(monthRaw)
	if !okY || !okM {
		return 0, 0, false
	}
	return year, month, true
}

func queryInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "undefined" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
