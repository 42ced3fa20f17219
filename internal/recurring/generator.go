package recurring

import "time"

// OccurrencesDue returns the dates for which the rule owes a transaction
// as of the given processing time: strictly after the watermark (or the
// start date while no watermark exists), and no later than asOf or the
// rule's end date, whichever comes first. Ascending, no duplicates.
//
// When several periods elapsed since the last run, every missed occurrence
// is returned in one call. Batching windows never loses dates; financial
// history stays complete no matter how long the processor was offline.
func (r *Rule) OccurrencesDue(asOf time.Time) []time.Time {
	if !r.IsActive {
		return nil
	}

	after := Day(r.StartDate)
	if r.LastGeneratedDate != nil {
		after = Day(*r.LastGeneratedDate)
	}

	until := Day(asOf)
	if r.EndDate != nil && Day(*r.EndDate).Before(until) {
		until = Day(*r.EndDate)
	}

	if !after.Before(until) {
		return nil
	}

	return r.occurrencesBetween(after, until)
}

// Preview returns the occurrences the rule's pattern produces in
// (from, until], ignoring the watermark. Backs the schedule preview
// surfaces; never used for materialization.
func (r *Rule) Preview(from, until time.Time) []time.Time {
	if !r.IsActive {
		return nil
	}

	after := Day(from)
	if start := Day(r.StartDate); after.Before(start) {
		after = start
	}

	capped := Day(until)
	if r.EndDate != nil && Day(*r.EndDate).Before(capped) {
		capped = Day(*r.EndDate)
	}

	return r.occurrencesBetween(after, capped)
}

func (r *Rule) occurrencesBetween(after, until time.Time) []time.Time {
	switch r.Frequency {
	case FrequencyDaily:
		return DailyOccurrences(after, until)
	case FrequencyWeekly:
		return WeeklyOccurrences(time.Weekday(r.DayOfWeek), after, until)
	case FrequencyMonthly:
		return MonthlyOccurrences(r.DayOfMonth, after, until)
	case FrequencyCustom:
		return IntervalOccurrences(r.IntervalDays, after, until)
	}

	return nil
}
