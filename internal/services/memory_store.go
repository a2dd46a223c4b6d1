package services

import (
	"context"
	"sync"

	"github.com/codyseavey/trading-dashboard/internal/apperr"
	"github.com/codyseavey/trading-dashboard/internal/models"
)

// MemoryStore keeps accounts for the lifetime of the process only.
// It has no history; use SQLiteStore when durability is needed.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]models.Account)}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) UpsertAccount(_ context.Context, acc *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.AccountKey] = *acc
	return nil
}

func (s *MemoryStore) GetAccount(_ context.Context, key string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[key]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "account", Key: key}
	}
	return &acc, nil
}

// ListAccounts returns copies; callers may mutate the result freely
func (s *MemoryStore) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (s *MemoryStore) CountAccounts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
