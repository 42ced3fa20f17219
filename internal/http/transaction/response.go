package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/transaction"
)

type transactionResponse struct {
	ID              uuid.UUID        `json:"id"`
	OwnerID         uuid.UUID        `json:"owner_id"`
	Amount          int64            `json:"amount"`
	Type            transaction.Type `json:"type"`
	Description     string           `json:"description"`
	Date            time.Time        `json:"date"`
	Currency        string           `json:"currency"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	RecurringRuleID *uuid.UUID       `json:"recurring_rule_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		OwnerID:         tx.OwnerID,
		Amount:          tx.Amount,
		Type:            tx.Type,
		Description:     tx.Description,
		Date:            tx.Date,
		Currency:        tx.Currency,
		CategoryID:      tx.CategoryID,
		Notes:           tx.Notes,
		RecurringRuleID: tx.RecurringRuleID,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
