package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurring
type Repository interface {
	CreateRule(ctx context.Context, rule *Rule) error
	GetRule(ctx context.Context, id uuid.UUID) (*Rule, error)
	ListRules(ctx context.Context, filter ListFilter) ([]*Rule, error)
	ListActiveRules(ctx context.Context) ([]*Rule, error)
	UpdateRule(ctx context.Context, rule *Rule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error

	// BeginProcessing opens the unit of work for a single rule. The rule
	// row is locked for the duration, so concurrent runs on the same rule
	// serialize and re-read the watermark the winner committed.
	BeginProcessing(ctx context.Context, ruleID uuid.UUID) (ProcessingTx, error)
}

// ProcessingTx is the atomic unit of work for one rule: the transaction
// inserts and the watermark advance either both commit or both roll back,
// so a failed or interrupted run retries from the same watermark with no
// duplicates.
type ProcessingTx interface {
	// Rule returns the rule as re-read under the lock.
	Rule() *Rule
	CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error
	AdvanceWatermark(ctx context.Context, lastGenerated time.Time) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID      uuid.UUID
	Description  string
	Amount       int64
	Type         transaction.Type
	Currency     string
	CategoryID   *uuid.UUID
	Notes        string
	Frequency    Frequency
	DayOfWeek    int
	DayOfMonth   int
	IntervalDays int
	StartDate    time.Time
	EndDate      *time.Time
}

type ListFilter struct {
	OwnerID    *uuid.UUID
	ActiveOnly bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Rule, error) {
	rule := &Rule{
		OwnerID:      params.OwnerID,
		Description:  params.Description,
		Amount:       params.Amount,
		Type:         params.Type,
		Currency:     params.Currency,
		CategoryID:   params.CategoryID,
		Notes:        params.Notes,
		Frequency:    params.Frequency,
		DayOfWeek:    params.DayOfWeek,
		DayOfMonth:   params.DayOfMonth,
		IntervalDays: params.IntervalDays,
		StartDate:    Day(params.StartDate),
		EndDate:      params.EndDate,
		IsActive:     true,
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.repo.GetRule(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Rule, error) {
	return s.repo.ListRules(ctx, filter)
}

// Update persists edits to a rule's definition. The watermark is owned by
// the processor and is not writable through this path.
func (s *Service) Update(ctx context.Context, rule *Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	return s.repo.UpdateRule(ctx, rule)
}

// SetActive suspends or reactivates a rule. The watermark is left where
// it is, so reactivation resumes generation exactly where it stopped.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return err
	}

	rule.IsActive = active

	return s.repo.UpdateRule(ctx, rule)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}

// ProcessAll materializes every due occurrence of every active rule and
// returns the number of transactions created. Rules are processed
// independently: one rule failing does not stop the others, and the
// failures are joined into the returned error. The batch is interruptible
// between rules via ctx; completed rules stay committed and the rest are
// picked up by the next run.
func (s *Service) ProcessAll(ctx context.Context, asOf time.Time) (int, error) {
	rules, err := s.repo.ListActiveRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active rules: %w", err)
	}

	var created int

	var errs []error

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		n, err := s.processRule(ctx, rule.ID, asOf)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", rule.ID, err))
			continue
		}

		created += n
	}

	return created, errors.Join(errs...)
}

func (s *Service) processRule(ctx context.Context, ruleID uuid.UUID, asOf time.Time) (int, error) {
	ptx, err := s.repo.BeginProcessing(ctx, ruleID)
	if err != nil {
		return 0, fmt.Errorf("begin processing: %w", err)
	}
	defer ptx.Rollback()

	// Generate from the locked re-read, not the listing snapshot: a
	// concurrent run may have advanced the watermark in between.
	rule := ptx.Rule()

	dates := rule.OccurrencesDue(asOf)
	if len(dates) == 0 {
		// Nothing due. The watermark is not touched, so re-running with
		// no time passed stays a strict no-op.
		return 0, nil
	}

	if err := ptx.CreateTransactions(ctx, rule.Materialize(dates)); err != nil {
		return 0, fmt.Errorf("create transactions: %w", err)
	}

	// The watermark advances to the last generated date, never to asOf:
	// if the end date cut the window short, the next run resumes from a
	// date the generator actually produced.
	if err := ptx.AdvanceWatermark(ctx, dates[len(dates)-1]); err != nil {
		return 0, fmt.Errorf("advance watermark: %w", err)
	}

	if err := ptx.Commit(); err != nil {
		return 0, fmt.Errorf("commit processing: %w", err)
	}

	return len(dates), nil
}
