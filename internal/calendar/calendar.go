// Package calendar holds the date and duration arithmetic shared by the
// dasha builder, serializer, and parser. Period durations are expressed in
// sidereal years; converting them to wall-clock intervals requires a day
// length for one year, which is injected rather than hardcoded at use sites.
package calendar

import (
	"fmt"
	"time"
)

// SiderealYearDays is the default length of one sidereal year in civil days.
// Callers that need a different year basis pass their own value to NewScale.
const SiderealYearDays = 365.256364

// TimestampLayout is the civil timestamp format used throughout the dasha
// text micro-format: space-separated date and time, no zone.
const TimestampLayout = "2006-01-02 15:04:05"

// Scale converts between fractional years and absolute instants using a
// fixed year length. The zero value is not usable; construct with NewScale.
type Scale struct {
	yearDays float64
}

// NewScale returns a Scale with the given year length in days. Non-positive
// values fall back to SiderealYearDays.
func NewScale(yearDays float64) Scale {
	if yearDays <= 0 {
		yearDays = SiderealYearDays
	}
	return Scale{yearDays: yearDays}
}

// YearDays returns the configured year length in days.
func (s Scale) YearDays() float64 {
	return s.yearDays
}

// AddYears returns t advanced by the given number of fractional years.
func (s Scale) AddYears(t time.Time, years float64) time.Time {
	d := time.Duration(years * s.yearDays * 24 * float64(time.Hour))
	return t.Add(d)
}

// Format renders an instant in the micro-format timestamp layout.
func Format(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Parse reads a micro-format timestamp. The location is UTC; the dasha text
// carries no zone information and all instants in one document share the
// same implicit offset.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse timestamp %q: %w", s, err)
	}
	return t, nil
}
