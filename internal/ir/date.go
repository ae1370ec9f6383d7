package ir

import (
	"fmt"
	"time"
)

// DateLayout is the storage and wire layout of civil dates.
const DateLayout = "2006-01-02"

// NewDate returns the civil date y-m-d as UTC midnight.
func NewDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats the civil date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the civil date of now in now's location.
func Today(now time.Time) time.Time {
	return NewDate(now.Year(), now.Month(), now.Day())
}

// MinusYears subtracts n calendar years from the civil date d.
//
// Unlike time.AddDate, a Feb 29 that lands in a non-leap year is clamped
// to Feb 28 instead of rolling over into March. This keeps
//
//	birthdate <= MinusYears(today, n)  <=>  AgeAt(birthdate, today) >= n
//
// true for every date, leap days included.
func MinusYears(d time.Time, n int) time.Time {
	y := d.Year() - n
	day := d.Day()
	if last := daysIn(y, d.Month()); day > last {
		day = last
	}
	return NewDate(y, d.Month(), day)
}

// AgeAt returns the number of whole years elapsed between birthdate and today.
func AgeAt(birthdate, today time.Time) int64 {
	age := today.Year() - birthdate.Year()
	if today.Month() < birthdate.Month() ||
		(today.Month() == birthdate.Month() && today.Day() < birthdate.Day()) {
		age--
	}
	return int64(age)
}

func daysIn(y int, m time.Month) int {
	// Day 0 of the following month is the last day of m.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
