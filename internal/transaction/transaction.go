package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ErrNotFound is returned when a transaction does not exist or is deleted.
var ErrNotFound = errors.New("transaction not found")

// Transaction represents a single financial transaction belonging to a user.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Amount      int64 // Amount in cents, always positive; Type carries the sign.
	Type        Type
	Description string
	Date        time.Time
	Currency    string // ISO 4217 code
	CategoryID  *uuid.UUID
	Notes       string

	// RecurringRuleID links a materialized transaction back to the
	// recurring rule that produced it. Nil for manual transactions.
	RecurringRuleID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}
