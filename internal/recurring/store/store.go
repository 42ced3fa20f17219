// Package store is the Postgres-backed rule repository.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/recurring"
	"github.com/pmcouto/centavo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRuleColumns = `
	id, owner_id, description, amount, type, currency, category_id, notes,
	frequency, day_of_week, day_of_month, interval_days,
	start_date, end_date, last_generated_date, is_active, created_at, updated_at
`

func scanRule(s scanner) (*recurring.Rule, error) {
	var r recurring.Rule

	var typeStr, freqStr string

	var notes sql.NullString

	if err := s.Scan(
		&r.ID, &r.OwnerID, &r.Description, &r.Amount, &typeStr, &r.Currency,
		&r.CategoryID, &notes, &freqStr, &r.DayOfWeek, &r.DayOfMonth,
		&r.IntervalDays, &r.StartDate, &r.EndDate, &r.LastGeneratedDate,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Type = transaction.Type(typeStr)
	r.Frequency = recurring.Frequency(freqStr)
	r.Notes = notes.String

	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, rule *recurring.Rule) error {
	query := `
		INSERT INTO recurring_rules (
			owner_id, description, amount, type, currency, category_id, notes,
			frequency, day_of_week, day_of_month, interval_days,
			start_date, end_date, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		rule.OwnerID,
		rule.Description,
		rule.Amount,
		rule.Type,
		rule.Currency,
		rule.CategoryID,
		rule.Notes,
		rule.Frequency,
		rule.DayOfWeek,
		rule.DayOfMonth,
		rule.IntervalDays,
		rule.StartDate,
		rule.EndDate,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) GetRule(ctx context.Context, id uuid.UUID) (*recurring.Rule, error) {
	query := `SELECT ` + selectRuleColumns + ` FROM recurring_rules WHERE id = $1`

	rule, err := scanRule(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting rule: %w", err)
	}

	return rule, nil
}

func (s *Store) ListRules(ctx context.Context, filter recurring.ListFilter) ([]*recurring.Rule, error) {
	query := `SELECT ` + selectRuleColumns + ` FROM recurring_rules WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.ActiveOnly {
		query += " AND is_active"
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*recurring.Rule

	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

func (s *Store) ListActiveRules(ctx context.Context) ([]*recurring.Rule, error) {
	return s.ListRules(ctx, recurring.ListFilter{ActiveOnly: true})
}

// UpdateRule persists the rule's definition fields. The watermark is only
// written through a ProcessingTx.
func (s *Store) UpdateRule(ctx context.Context, rule *recurring.Rule) error {
	query := `
		UPDATE recurring_rules
		SET description = $1, amount = $2, type = $3, currency = $4,
			category_id = $5, notes = $6, frequency = $7, day_of_week = $8,
			day_of_month = $9, interval_days = $10, start_date = $11,
			end_date = $12, is_active = $13, updated_at = NOW()
		WHERE id = $14
	`

	res, err := s.db.ExecContext(ctx, query,
		rule.Description,
		rule.Amount,
		rule.Type,
		rule.Currency,
		rule.CategoryID,
		rule.Notes,
		rule.Frequency,
		rule.DayOfWeek,
		rule.DayOfMonth,
		rule.IntervalDays,
		rule.StartDate,
		rule.EndDate,
		rule.IsActive,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteRule(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return recurring.ErrNotFound
	}

	return nil
}

// BeginProcessing opens a database transaction holding a row lock on the
// rule, re-reads it under the lock, and returns the unit of work that
// inserts the rule's transactions and advances its watermark atomically.
func (s *Store) BeginProcessing(ctx context.Context, ruleID uuid.UUID) (recurring.ProcessingTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning processing tx: %w", err)
	}

	query := `SELECT ` + selectRuleColumns + ` FROM recurring_rules WHERE id = $1 FOR UPDATE`

	rule, err := scanRule(dbTx.QueryRowContext(ctx, query, ruleID))
	if err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("locking rule: %w", err)
	}

	return &processingTx{tx: dbTx, rule: rule}, nil
}

type processingTx struct {
	tx   *sql.Tx
	rule *recurring.Rule
}

func (p *processingTx) Rule() *recurring.Rule { return p.rule }

func (p *processingTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			owner_id, amount, type, description, date, currency,
			category_id, notes, recurring_rule_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	for _, tx := range txs {
		err := p.tx.QueryRowContext(ctx, query,
			tx.OwnerID,
			tx.Amount,
			tx.Type,
			tx.Description,
			tx.Date,
			tx.Currency,
			tx.CategoryID,
			tx.Notes,
			tx.RecurringRuleID,
		).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

func (p *processingTx) AdvanceWatermark(ctx context.Context, lastGenerated time.Time) error {
	query := `
		UPDATE recurring_rules
		SET last_generated_date = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := p.tx.ExecContext(ctx, query, lastGenerated, p.rule.ID); err != nil {
		return fmt.Errorf("advancing watermark: %w", err)
	}

	return nil
}

func (p *processingTx) Commit() error   { return p.tx.Commit() }
func (p *processingTx) Rollback() error { return p.tx.Rollback() }
