// Package memory is an in-memory rule repository, used by tests and by
// deployments running with STORAGE_DRIVER=memory. It mirrors the Postgres
// store's semantics: identities are uuids assigned on create, and a
// processing unit of work buffers its writes and applies them on Commit
// while holding the rule's lock.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/recurring"
	"github.com/pmcouto/centavo/internal/transaction"
)

// TransactionSink receives the transactions materialized during a
// processing pass. Satisfied by the in-memory transaction store.
type TransactionSink interface {
	CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error
}

type Store struct {
	mu    sync.Mutex
	rules map[uuid.UUID]*recurring.Rule
	locks map[uuid.UUID]*sync.Mutex
	sink  TransactionSink
}

func New(sink TransactionSink) *Store {
	return &Store{
		rules: make(map[uuid.UUID]*recurring.Rule),
		locks: make(map[uuid.UUID]*sync.Mutex),
		sink:  sink,
	}
}

func cloneRule(r *recurring.Rule) *recurring.Rule {
	c := *r
	return &c
}

func (s *Store) CreateRule(_ context.Context, rule *recurring.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = uuid.New()
	rule.CreatedAt = time.Now()

	s.rules[rule.ID] = cloneRule(rule)
	s.locks[rule.ID] = &sync.Mutex{}

	return nil
}

func (s *Store) GetRule(_ context.Context, id uuid.UUID) (*recurring.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, recurring.ErrNotFound
	}

	return cloneRule(rule), nil
}

func (s *Store) ListRules(_ context.Context, filter recurring.ListFilter) ([]*recurring.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rules []*recurring.Rule

	for _, rule := range s.rules {
		if filter.OwnerID != nil && rule.OwnerID != *filter.OwnerID {
			continue
		}

		if filter.ActiveOnly && !rule.IsActive {
			continue
		}

		rules = append(rules, cloneRule(rule))
	}

	return rules, nil
}

func (s *Store) ListActiveRules(ctx context.Context) ([]*recurring.Rule, error) {
	return s.ListRules(ctx, recurring.ListFilter{ActiveOnly: true})
}

// UpdateRule replaces the rule's definition fields, preserving the stored
// watermark: only a ProcessingTx may move it.
func (s *Store) UpdateRule(_ context.Context, rule *recurring.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rules[rule.ID]
	if !ok {
		return recurring.ErrNotFound
	}

	updated := cloneRule(rule)
	updated.LastGeneratedDate = current.LastGeneratedDate
	updated.CreatedAt = current.CreatedAt
	now := time.Now()
	updated.UpdatedAt = &now

	s.rules[rule.ID] = updated

	return nil
}

func (s *Store) DeleteRule(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return recurring.ErrNotFound
	}

	delete(s.rules, id)
	delete(s.locks, id)

	return nil
}

// BeginProcessing takes the rule's lock (serializing concurrent runs on
// the same rule), re-reads the rule, and returns a unit of work whose
// writes are buffered until Commit.
func (s *Store) BeginProcessing(_ context.Context, ruleID uuid.UUID) (recurring.ProcessingTx, error) {
	s.mu.Lock()
	lock, ok := s.locks[ruleID]
	s.mu.Unlock()

	if !ok {
		return nil, recurring.ErrNotFound
	}

	lock.Lock()

	s.mu.Lock()
	rule, ok := s.rules[ruleID]
	if !ok {
		// Deleted between lookup and lock.
		s.mu.Unlock()
		lock.Unlock()

		return nil, recurring.ErrNotFound
	}

	snapshot := cloneRule(rule)
	s.mu.Unlock()

	return &processingTx{store: s, lock: lock, rule: snapshot}, nil
}

type processingTx struct {
	store *Store
	lock  *sync.Mutex
	rule  *recurring.Rule

	pending   []*transaction.Transaction
	watermark *time.Time
	done      bool
}

func (p *processingTx) Rule() *recurring.Rule { return p.rule }

func (p *processingTx) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	p.pending = append(p.pending, txs...)
	return nil
}

func (p *processingTx) AdvanceWatermark(_ context.Context, lastGenerated time.Time) error {
	p.watermark = &lastGenerated
	return nil
}

func (p *processingTx) Commit() error {
	if p.done {
		return fmt.Errorf("processing tx already finished")
	}

	if err := p.store.sink.CreateTransactions(context.Background(), p.pending); err != nil {
		return fmt.Errorf("flushing transactions: %w", err)
	}

	p.store.mu.Lock()
	if rule, ok := p.store.rules[p.rule.ID]; ok && p.watermark != nil {
		rule.LastGeneratedDate = p.watermark
	}
	p.store.mu.Unlock()

	p.done = true
	p.lock.Unlock()

	return nil
}

func (p *processingTx) Rollback() error {
	if p.done {
		return nil
	}

	p.pending = nil
	p.watermark = nil
	p.done = true
	p.lock.Unlock()

	return nil
}
