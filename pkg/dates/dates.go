// Package dates holds the day-granularity helpers shared by the HTTP layer
// and the upstream adapter.
package dates

import "time"

const Layout = "2006-01-02"

func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Truncate normalizes an instant to its UTC day.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
