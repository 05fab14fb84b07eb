package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month used for list filters and reports.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses the YYYY-MM wire format. Anything malformed or with a
// month number outside 1..12 is rejected.
func ParseMonth(s string) (Month, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month format %q, expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Month{}, fmt.Errorf("invalid month format %q, expected YYYY-MM", s)
	}
	mon, err := strconv.Atoi(parts[1])
	if err != nil || mon < 1 || mon > 12 {
		return Month{}, fmt.Errorf("invalid month format %q, expected YYYY-MM", s)
	}
	return Month{Year: year, Month: time.Month(mon)}, nil
}

// CurrentMonth returns the month containing now.
func CurrentMonth(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

// Start is the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last instant of the month; the [Start, End] range is inclusive.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Days is the number of calendar days in the month.
func (m Month) Days() int {
	return m.Start().AddDate(0, 1, -1).Day()
}

// Day returns the date of the 1-based day number within the month.
func (m Month) Day(n int) time.Time {
	return m.Start().AddDate(0, 0, n-1)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
