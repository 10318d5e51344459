package leave

import "time"

// DateOnly truncates t to a UTC calendar date. All request dates are
// normalized through this before they are compared or counted.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the day count of the closed range [start, end].
// Callers must validate start <= end first.
func DaysInclusive(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours()/24) + 1
}

// RangesOverlap reports whether the closed ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one calendar day. Touching endpoints
// overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(bStart).After(DateOnly(aEnd))
}
