package recurring

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

// WriteCalendar encodes the given rules as an iCalendar feed, one VEVENT
// per rule with the rule's RRULE attached, so external calendar clients
// can subscribe to the recurring schedule.
func WriteCalendar(w io.Writer, rules []*Rule) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//centavo//recurring schedule//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	now := time.Now().UTC()

	for _, r := range rules {
		rr, err := r.RRule()
		if err != nil {
			return fmt.Errorf("rule %s: %w", r.ID, err)
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, r.ID.String())
		event.Props.SetText(ical.PropSummary, r.Description)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, Day(r.StartDate).AddDate(0, 0, 1))

		// RRULE is a RECUR value, not TEXT; text escaping would mangle
		// its semicolons.
		rruleProp := ical.NewProp(ical.PropRecurrenceRule)
		rruleProp.SetValueType(ical.ValueRecurrence)
		rruleProp.Value = rr
		event.Props.Set(rruleProp)

		if r.Notes != "" {
			event.Props.SetText(ical.PropDescription, r.Notes)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}

	return nil
}
