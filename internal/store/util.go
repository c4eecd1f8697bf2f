package store

import "time"

// parseMonthDay parses a "YYYY-MM-DD" or "MM-DD" date string; anniversary
// triggers compare only its month and day.
func parseMonthDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("01-02", s)
}
