package recurring

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/recurring"
	"github.com/pmcouto/centavo/internal/transaction"
)

// dateOnly marshals as "2006-01-02"; rule bounds have no time component.
type dateOnly struct {
	time.Time
}

func (d dateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *dateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}

func (d *dateOnly) timePtr() *time.Time {
	if d == nil {
		return nil
	}

	return &d.Time
}

func fromTimePtr(t *time.Time) *dateOnly {
	if t == nil {
		return nil
	}

	return &dateOnly{*t}
}

type ruleResponse struct {
	ID                uuid.UUID           `json:"id"`
	OwnerID           uuid.UUID           `json:"owner_id"`
	Description       string              `json:"description"`
	Amount            int64               `json:"amount"`
	Type              transaction.Type    `json:"type"`
	Currency          string              `json:"currency"`
	CategoryID        *uuid.UUID          `json:"category_id,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	Frequency         recurring.Frequency `json:"frequency"`
	DayOfWeek         int                 `json:"day_of_week,omitempty"`
	DayOfMonth        int                 `json:"day_of_month,omitempty"`
	IntervalDays      int                 `json:"interval_days,omitempty"`
	StartDate         dateOnly            `json:"start_date"`
	EndDate           *dateOnly           `json:"end_date,omitempty"`
	LastGeneratedDate *dateOnly           `json:"last_generated_date,omitempty"`
	IsActive          bool                `json:"is_active"`
	RRule             string              `json:"rrule,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         *time.Time          `json:"updated_at,omitempty"`
}

func toResponse(rule *recurring.Rule) ruleResponse {
	rr, err := rule.RRule()
	if err != nil {
		slog.Warn("failed to render rrule", "rule", rule.ID, "error", err)
	}

	return ruleResponse{
		ID:                rule.ID,
		OwnerID:           rule.OwnerID,
		Description:       rule.Description,
		Amount:            rule.Amount,
		Type:              rule.Type,
		Currency:          rule.Currency,
		CategoryID:        rule.CategoryID,
		Notes:             rule.Notes,
		Frequency:         rule.Frequency,
		DayOfWeek:         rule.DayOfWeek,
		DayOfMonth:        rule.DayOfMonth,
		IntervalDays:      rule.IntervalDays,
		StartDate:         dateOnly{rule.StartDate},
		EndDate:           fromTimePtr(rule.EndDate),
		LastGeneratedDate: fromTimePtr(rule.LastGeneratedDate),
		IsActive:          rule.IsActive,
		RRule:             rr,
		CreatedAt:         rule.CreatedAt,
		UpdatedAt:         rule.UpdatedAt,
	}
}

func toResponseList(rules []*recurring.Rule) []ruleResponse {
	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	return resp
}
