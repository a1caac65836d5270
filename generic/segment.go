package generic

// =============================================================================
// PERIOD SEGMENTER - Split a day range along rate changes
// =============================================================================

// Segment splits [start, upper) into maximal periods with a single base rate.
//
// upper is exclusive; pass Today().AddDays(1) to accrue through today.
// Breakpoints are start, every effective date strictly inside (start, upper),
// and upper. Zero-length periods are dropped, so start >= upper yields none.
//
//	start=2023-01-01, upper=2024-01-01, change on 2023-07-01
//	-> [2023-01-01, 2023-06-30], [2023-07-01, 2023-12-31]
func Segment(start, upper TimePoint, schedule RateSchedule) []Period {
	breakpoints := make([]TimePoint, 0, schedule.Len()+2)
	breakpoints = append(breakpoints, start)
	breakpoints = append(breakpoints, schedule.EffectiveDatesBetween(start, upper)...)
	breakpoints = append(breakpoints, upper)

	var periods []Period
	for i := 0; i < len(breakpoints)-1; i++ {
		p := Period{Start: breakpoints[i], End: breakpoints[i+1].AddDays(-1)}
		if p.Start.After(p.End) {
			continue
		}
		periods = append(periods, p)
	}
	return periods
}
