package recurring

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/currency"
	"github.com/pmcouto/centavo/internal/transaction"
)

// Frequency selects how occurrence dates of a rule are spaced.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Rule is a recurring transaction definition. Its template fields are
// copied verbatim onto every transaction it materializes.
type Rule struct {
	ID      uuid.UUID
	OwnerID uuid.UUID

	// Template fields.
	Description string
	Amount      int64 // cents, positive
	Type        transaction.Type
	Currency    string
	CategoryID  *uuid.UUID
	Notes       string

	Frequency    Frequency
	DayOfWeek    int // weekly: 0=Sunday .. 6=Saturday
	DayOfMonth   int // monthly: 1-31, clamped to the actual month length
	IntervalDays int // custom: step in days, >= 1

	// StartDate is an exclusive lower bound: no occurrence falls on or
	// before it. EndDate, when set, is inclusive.
	StartDate time.Time
	EndDate   *time.Time

	// LastGeneratedDate is the watermark: the latest date for which a
	// transaction has been materialized. Nil until the first run. It only
	// ever holds a date previously returned by the generator and never
	// regresses.
	LastGeneratedDate *time.Time

	IsActive bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Validate checks the rule's parameters. It is the single place where
// rule validity is decided; generation does not re-check.
func (r *Rule) Validate() error {
	if r.Amount <= 0 {
		return invalid("amount", "must be positive, got %d", r.Amount)
	}

	if r.Type != transaction.TypeIncome && r.Type != transaction.TypeExpense {
		return invalid("type", "must be income or expense, got %q", r.Type)
	}

	if !currency.ValidCode(r.Currency) {
		return invalid("currency", "unknown ISO 4217 code %q", r.Currency)
	}

	switch r.Frequency {
	case FrequencyDaily:
	case FrequencyWeekly:
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			return invalid("day_of_week", "must be in [0,6], got %d", r.DayOfWeek)
		}
	case FrequencyMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return invalid("day_of_month", "must be in [1,31], got %d", r.DayOfMonth)
		}
	case FrequencyCustom:
		if r.IntervalDays < 1 {
			return invalid("interval_days", "must be at least 1, got %d", r.IntervalDays)
		}
	default:
		return invalid("frequency", "unknown frequency %q", r.Frequency)
	}

	if r.EndDate != nil && Day(*r.EndDate).Before(Day(r.StartDate)) {
		return invalid("end_date", "must not be before start_date")
	}

	return nil
}

// Materialize builds one transaction per occurrence date from the rule's
// template fields, tagging the notes with the rule's identity.
func (r *Rule) Materialize(dates []time.Time) []*transaction.Transaction {
	tag := "[recurring:" + r.ID.String() + "]"

	notes := tag
	if r.Notes != "" {
		notes = r.Notes + " " + tag
	}

	txs := make([]*transaction.Transaction, len(dates))
	for i, date := range dates {
		txs[i] = &transaction.Transaction{
			OwnerID:         r.OwnerID,
			Amount:          r.Amount,
			Type:            r.Type,
			Description:     r.Description,
			Date:            date,
			Currency:        r.Currency,
			CategoryID:      r.CategoryID,
			Notes:           notes,
			RecurringRuleID: &r.ID,
		}
	}

	return txs
}
