package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

type TransactionRepository struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{txs: make(map[string]*domain.Transaction)}
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	c := *tx
	return &c
}

func (r *TransactionRepository) Save(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.txs[tx.ID] = cloneTransaction(tx)
	return cloneTransaction(tx), nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(tx), nil
}

func (r *TransactionRepository) FindAll(_ context.Context) ([]*domain.Transaction, error) {
	return r.collect(func(*domain.Transaction) bool { return true }), nil
}

func (r *TransactionRepository) FindByUserID(_ context.Context, userID string) ([]*domain.Transaction, error) {
	return r.collect(func(tx *domain.Transaction) bool { return tx.UserID == userID }), nil
}

func (r *TransactionRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.txs[id]
	return ok, nil
}

func (r *TransactionRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *TransactionRepository) collect(keep func(*domain.Transaction) bool) []*domain.Transaction {
	r.mu.RLock()
	out := make([]*domain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		if keep(tx) {
			out = append(out, cloneTransaction(tx))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
