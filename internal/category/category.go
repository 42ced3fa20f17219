package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a category does not exist.
var ErrNotFound = errors.New("category not found")

// Category groups transactions for reporting. Kind restricts which
// transaction types the category applies to; empty means both.
type Category struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Kind      string // "income", "expense" or ""
	CreatedAt time.Time
}
