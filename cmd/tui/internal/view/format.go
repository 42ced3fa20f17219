package view

import (
	"context"
	"fmt"
	"time"

	"github.com/pmcouto/centavo/internal/recurring"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatSchedule describes a rule's cadence in one short phrase.
func FormatSchedule(r *recurring.Rule) string {
	switch r.Frequency {
	case recurring.FrequencyDaily:
		return "every day"
	case recurring.FrequencyWeekly:
		return "every " + time.Weekday(r.DayOfWeek).String()
	case recurring.FrequencyMonthly:
		return fmt.Sprintf("day %d of each month", r.DayOfMonth)
	case recurring.FrequencyCustom:
		return fmt.Sprintf("every %d days", r.IntervalDays)
	}

	return string(r.Frequency)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
