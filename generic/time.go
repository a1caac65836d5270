package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar day (interest accrues per whole day)
// =============================================================================

// TimePoint is a calendar day in UTC. The time-of-day part is ignored.
type TimePoint struct {
	Time time.Time
}

const (
	isoLayout    = "2006-01-02"
	germanLayout = "02.01.2006"
)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// MustParseDate is for tables and tests.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.normalize().AddDate(0, 0, n)}
}

// AddMonths returns the date n months later, normalized like time.AddDate.
func (tp TimePoint) AddMonths(n int) TimePoint {
	return TimePoint{Time: tp.normalize().AddDate(0, n, 0)}
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string       { return tp.Time.Format(isoLayout) }
func (tp TimePoint) GermanString() string { return tp.Time.Format(germanLayout) }

// =============================================================================
// DAY COUNT CALENDAR - actual/actual
// =============================================================================

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween counts calendar days from -> to (to exclusive).
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfYear(year int) TimePoint { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint   { return NewTimePoint(year, time.December, 31) }

// StartOfHalfYear returns Jan 1 or Jul 1 of the half-year containing tp.
// Base rates are republished on exactly these days.
func StartOfHalfYear(tp TimePoint) TimePoint {
	if tp.Month() >= time.July {
		return NewTimePoint(tp.Year(), time.July, 1)
	}
	return StartOfYear(tp.Year())
}
