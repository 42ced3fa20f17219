// Package dashboard aggregates transactions into the totals backing the
// dashboard views, with all amounts converted into one base currency.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/category"
	"github.com/pmcouto/centavo/internal/currency"
	"github.com/pmcouto/centavo/internal/transaction"
)

type Service struct {
	txs       *transaction.Service
	cats      *category.Service
	converter *currency.Converter
}

func NewService(txs *transaction.Service, cats *category.Service, converter *currency.Converter) *Service {
	return &Service{txs: txs, cats: cats, converter: converter}
}

type Summary struct {
	Currency     string           `json:"currency"`
	TotalIncome  int64            `json:"total_income"`
	TotalExpense int64            `json:"total_expense"`
	Net          int64            `json:"net"`
	Months       []MonthTotals    `json:"months"`
	Categories   []CategoryTotals `json:"categories"`
}

// MonthTotals holds one calendar month's totals, keyed "2006-01".
type MonthTotals struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

type CategoryTotals struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Name       string     `json:"name"`
	Income     int64      `json:"income"`
	Expense    int64      `json:"expense"`
}

type Filter struct {
	OwnerID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{
		OwnerID:   filter.OwnerID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	names, err := s.categoryNames(ctx, filter.OwnerID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Currency: s.converter.Base()}
	months := make(map[string]*MonthTotals)
	byCategory := make(map[uuid.UUID]*CategoryTotals)

	uncategorized := &CategoryTotals{Name: "uncategorized"}

	for _, tx := range txs {
		amount, err := s.converter.Convert(tx.Amount, tx.Currency)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}

		monthKey := tx.Date.Format("2006-01")

		month, ok := months[monthKey]
		if !ok {
			month = &MonthTotals{Month: monthKey}
			months[monthKey] = month
		}

		cat := uncategorized

		if tx.CategoryID != nil {
			cat, ok = byCategory[*tx.CategoryID]
			if !ok {
				cat = &CategoryTotals{CategoryID: tx.CategoryID, Name: names[*tx.CategoryID]}
				byCategory[*tx.CategoryID] = cat
			}
		}

		switch tx.Type {
		case transaction.TypeIncome:
			summary.TotalIncome += amount
			month.Income += amount
			cat.Income += amount
		case transaction.TypeExpense:
			summary.TotalExpense += amount
			month.Expense += amount
			cat.Expense += amount
		}
	}

	summary.Net = summary.TotalIncome - summary.TotalExpense

	for _, m := range months {
		summary.Months = append(summary.Months, *m)
	}

	sort.Slice(summary.Months, func(i, j int) bool {
		return summary.Months[i].Month < summary.Months[j].Month
	})

	for _, c := range byCategory {
		summary.Categories = append(summary.Categories, *c)
	}

	if uncategorized.Income != 0 || uncategorized.Expense != 0 {
		summary.Categories = append(summary.Categories, *uncategorized)
	}

	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Name < summary.Categories[j].Name
	})

	return summary, nil
}

func (s *Service) categoryNames(ctx context.Context, ownerID *uuid.UUID) (map[uuid.UUID]string, error) {
	cats, err := s.cats.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	return names, nil
}
