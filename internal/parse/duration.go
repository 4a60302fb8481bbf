package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidDuration = errors.New("invalid duration")

var (
	// "365", "365 days", "-3 day"
	daysRe = regexp.MustCompile(`(?i)^(-?\d+)(?:\s*days?)?$`)
	// "365 00:00:00", "1 day, 12:00:00"
	clockRe = regexp.MustCompile(`(?i)^(-?\d+)\s*(?:days?,?)?\s+(\d{1,2}):(\d{2}):(\d{2})(?:\.\d+)?$`)
	// "P365D", "P1Y2M10D", "P2W"
	isoRe = regexp.MustCompile(`(?i)^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?$`)
)

// WarrantyDuration converts a submitted duration into whole days. Any time of
// day component is dropped. Negative values pass through for the caller to reject.
func WarrantyDuration(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}

	if m := daysRe.FindStringSubmatch(s); m != nil {
		return strconv.Atoi(m[1])
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		return strconv.Atoi(m[1])
	}

	if m := isoRe.FindStringSubmatch(s); m != nil && m[2]+m[3]+m[4]+m[5] != "" {
		years, months, weeks, days := atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5])
		total := years*365 + months*30 + weeks*7 + days
		if m[1] == "-" {
			total = -total
		}
		return total, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
