// Package memory is an in-memory transaction repository with uuid
// identities, used by tests and memory-backed deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmcouto/centavo/internal/transaction"
)

type Store struct {
	mu  sync.Mutex
	txs map[uuid.UUID]*transaction.Transaction
}

func New() *Store {
	return &Store{txs: make(map[uuid.UUID]*transaction.Transaction)}
}

func clone(tx *transaction.Transaction) *transaction.Transaction {
	c := *tx
	return &c
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(tx)

	return nil
}

// CreateTransactions appends the whole batch under one lock acquisition;
// the batch is applied entirely or not at all.
func (s *Store) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		s.insert(tx)
	}

	return nil
}

func (s *Store) insert(tx *transaction.Transaction) {
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	s.txs[tx.ID] = clone(tx)
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.DeletedAt != nil {
		return nil, transaction.ErrNotFound
	}

	return clone(tx), nil
}

func (s *Store) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []*transaction.Transaction

	for _, tx := range s.txs {
		if !matches(tx, filter) {
			continue
		}

		txs = append(txs, clone(tx))
	}

	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	return txs, nil
}

func matches(tx *transaction.Transaction, filter transaction.ListFilter) bool {
	if tx.DeletedAt != nil {
		return false
	}

	if filter.OwnerID != nil && tx.OwnerID != *filter.OwnerID {
		return false
	}

	if filter.Type != nil && tx.Type != *filter.Type {
		return false
	}

	if filter.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filter.CategoryID) {
		return false
	}

	if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
		return false
	}

	if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
		return false
	}

	return true
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.txs[tx.ID]
	if !ok || current.DeletedAt != nil {
		return transaction.ErrNotFound
	}

	updated := clone(tx)
	updated.CreatedAt = current.CreatedAt
	now := time.Now()
	updated.UpdatedAt = &now

	s.txs[tx.ID] = updated

	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.DeletedAt != nil {
		return transaction.ErrNotFound
	}

	now := time.Now()
	tx.DeletedAt = &now

	return nil
}
