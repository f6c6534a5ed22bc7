// Package ledger holds the in-memory transaction history of one session.
package ledger

import (
	"context"
	"slices"
	"sync"

	"gestor/internal/core"
)

// Store keeps transactions newest first. Writers replace the backing slice
// instead of mutating it, so a snapshot handed to a reader is never touched
// again.
type Store struct {
	mu    sync.RWMutex
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// Prepend validates tx and inserts it at the head of the history.
func (s *Store) Prepend(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Transaction, 0, len(s.items)+1)
	next = append(next, tx)
	next = append(next, s.items...)
	s.items = next
	return nil
}

// Seed appends txs after the current history in the given order. It is meant
// for loading an initial data set before the store is shared.
func (s *Store) Seed(txs ...core.Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(slices.Clip(s.items), txs...)
	return nil
}

// Snapshot returns the current history. The returned slice is shared and must
// be treated as read-only.
func (s *Store) Snapshot(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ Ledger = (*Store)(nil)
