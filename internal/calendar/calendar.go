// Package calendar holds timezone-naive calendar day helpers.
//
// A calendar day is represented as a time.Time at midnight UTC. Values from
// any other location are reduced to the year/month/day they show in their own
// location before any arithmetic, so DST and offsets never shift a day.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Layout is the storage and wire format of a calendar day.
const Layout = "2006-01-02"

// First and Last bound the days Layout can represent.
var (
	First = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	Last  = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Day reduces t to the calendar day it falls on in its own location.
func Day(t time.Time) time.Time {
	start := now.With(t).BeginningOfDay()
	y, m, d := start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day as seen from loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(time.Now().In(loc))
}

// Parse reads a YYYY-MM-DD string.
func Parse(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// Format renders a calendar day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// AddDays shifts a calendar day by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts whole days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// YearBounds returns Jan 1 and Dec 31 of year.
func YearBounds(year int) (first, last time.Time) {
	n := now.With(time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC))
	return Day(n.BeginningOfYear()), Day(n.EndOfYear())
}

// Within reports whether day lies in the inclusive range [start, end].
func Within(day, start, end time.Time) bool {
	d := Day(day)
	return !d.Before(Day(start)) && !d.After(Day(end))
}
