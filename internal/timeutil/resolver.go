// Package timeutil resolves UTC instants into coding-day identifiers and
// local hours. A coding day starts at a configurable boundary hour rather
// than midnight, so late-night activity is attributed to the evening it
// belongs to.
package timeutil

import "time"

const dayFormat = "2006-01-02"

// CodingDay returns the coding-day identifier (YYYY-MM-DD) for a UTC
// instant. The timezone offset shifts the instant into local time; the
// boundary hour is then subtracted so that, e.g., with boundary 4 a commit
// at 02:30 local lands on the previous day.
func CodingDay(t time.Time, offsetHours float64, boundaryHour int) string {
	shifted := t.UTC().
		Add(time.Duration(offsetHours * float64(time.Hour))).
		Add(-time.Duration(boundaryHour) * time.Hour)
	return shifted.Format(dayFormat)
}

// LocalHour returns the local hour of day (0-23) for a UTC instant,
// independent of the day-boundary setting.
func LocalHour(t time.Time, offsetHours float64) int {
	return t.UTC().Add(time.Duration(offsetHours * float64(time.Hour))).Hour()
}

// SameCodingDay reports whether two instants fall on the same coding day.
func SameCodingDay(a, b time.Time, offsetHours float64, boundaryHour int) bool {
	return CodingDay(a, offsetHours, boundaryHour) == CodingDay(b, offsetHours, boundaryHour)
}

// DayHour is a composite key identifying one local hour within one coding
// day. Used for active-hour counting instead of formatted string keys.
type DayHour struct {
	Day  string
	Hour int
}

// HourKey builds the DayHour key for a UTC instant.
func HourKey(t time.Time, offsetHours float64, boundaryHour int) DayHour {
	return DayHour{
		Day:  CodingDay(t, offsetHours, boundaryHour),
		Hour: LocalHour(t, offsetHours),
	}
}
