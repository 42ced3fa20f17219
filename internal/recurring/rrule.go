package recurring

import (
	"fmt"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RRule renders the rule's pattern as an RFC 5545 RRULE string, for API
// responses and the iCalendar feed. It is a lossy projection: RRULE
// BYMONTHDAY skips months shorter than the anchor day instead of clamping
// the way generation does, so the string is advisory, never an input to
// the generator.
func (r *Rule) RRule() (string, error) {
	opt := rrule.ROption{
		Dtstart: Day(r.StartDate),
	}

	switch r.Frequency {
	case FrequencyDaily:
		opt.Freq = rrule.DAILY
	case FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rruleWeekdays[r.DayOfWeek]}
	case FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{r.DayOfMonth}
	case FrequencyCustom:
		opt.Freq = rrule.DAILY
		opt.Interval = r.IntervalDays
	default:
		return "", fmt.Errorf("no RRULE mapping for frequency %q", r.Frequency)
	}

	if r.EndDate != nil {
		opt.Until = Day(*r.EndDate)
	}

	return opt.RRuleString(), nil
}
