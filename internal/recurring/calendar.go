package recurring

import "time"

// The calendar functions below produce ascending occurrence dates in the
// half-open window (after, until]: strictly after the lower bound, up to
// and including the upper bound. Bounds are compared at day granularity;
// time-of-day is stripped before any comparison. All return nil when the
// window is empty.

// Day truncates t to midnight in its location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyOccurrences returns every date from the day after `after` through
// `until`.
func DailyOccurrences(after, until time.Time) []time.Time {
	after, until = Day(after), Day(until)
	if !after.Before(until) {
		return nil
	}

	var dates []time.Time
	for d := after.AddDate(0, 0, 1); !d.After(until); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}

// WeeklyOccurrences returns every date in the window whose day of week
// equals weekday. The first hit is computed in closed form from the lower
// bound, then the sequence steps by whole weeks.
func WeeklyOccurrences(weekday time.Weekday, after, until time.Time) []time.Time {
	after, until = Day(after), Day(until)
	if !after.Before(until) {
		return nil
	}

	first := after.AddDate(0, 0, 1)
	if shift := (int(weekday) - int(first.Weekday()) + 7) % 7; shift > 0 {
		first = first.AddDate(0, 0, shift)
	}

	var dates []time.Time
	for d := first; !d.After(until); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}

	return dates
}

// MonthlyOccurrences returns, for each month touched by the window, the
// date with the given day of month, clamped to the month's last day when
// the month is shorter (anchor 31 in February yields Feb 28 or 29).
func MonthlyOccurrences(dayOfMonth int, after, until time.Time) []time.Time {
	after, until = Day(after), Day(until)
	if !after.Before(until) {
		return nil
	}

	var dates []time.Time

	// The clamped target is strictly increasing month over month, so the
	// first target past the upper bound ends the scan.
	for month := firstOfMonth(after); ; month = month.AddDate(0, 1, 0) {
		target := clampToMonth(month, dayOfMonth)
		if target.After(until) {
			break
		}

		if target.After(after) {
			dates = append(dates, target)
		}
	}

	return dates
}

// IntervalOccurrences returns the arithmetic sequence starting
// intervalDays after the lower bound, stepping by intervalDays.
// intervalDays < 1 is rejected upstream by rule validation.
func IntervalOccurrences(intervalDays int, after, until time.Time) []time.Time {
	after, until = Day(after), Day(until)
	if intervalDays < 1 || !after.Before(until) {
		return nil
	}

	var dates []time.Time
	for d := after.AddDate(0, 0, intervalDays); !d.After(until); d = d.AddDate(0, 0, intervalDays) {
		dates = append(dates, d)
	}

	return dates
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// clampToMonth returns the date in firstOfMonth's month with the given
// day, or the month's last day if the month is shorter.
func clampToMonth(firstOfMonth time.Time, day int) time.Time {
	if last := firstOfMonth.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}

	return firstOfMonth.AddDate(0, 0, day-1)
}
