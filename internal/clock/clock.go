// Package clock supplies the time source used by the rule engines and the
// calendar arithmetic they share. All dates are UTC midnights.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed time.Time

// Now implements Clock.
func (f Fixed) Now() time.Time { return time.Time(f).UTC() }

// On returns a Fixed clock at midnight of the given date.
func On(year int, month time.Month, day int) Fixed {
	return Fixed(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today returns the current date of c.
func Today(c Clock) time.Time {
	return Date(c.Now())
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Date(t).AddDate(0, 0, n)
}

// MonthBounds returns the half-open range [start, end) of the calendar month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Month returns the half-open range of the given calendar month.
func Month(year int, month time.Month) (time.Time, time.Time) {
	return MonthBounds(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}
