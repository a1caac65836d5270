package generic

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is the closed day range [Start, End].
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// DayCount is the number of days in the period, both ends included.
func (p Period) DayCount() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Label formats the period as "DD.MM.YYYY - DD.MM.YYYY".
func (p Period) Label() string {
	return p.Start.GermanString() + " - " + p.End.GermanString()
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// DaysPerYear splits the period by calendar year: year -> days in that year.
func (p Period) DaysPerYear() map[int]int {
	out := make(map[int]int)
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		from, to := StartOfYear(year), EndOfYear(year)
		if from.Before(p.Start) {
			from = p.Start
		}
		if to.After(p.End) {
			to = p.End
		}
		if n := (Period{Start: from, End: to}).DayCount(); n > 0 {
			out[year] = n
		}
	}
	return out
}
