package services

import (
	"context"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

// AccountStore holds the latest state per account key; last write wins
type AccountStore interface {
	UpsertAccount(ctx context.Context, acc *models.Account) error
	GetAccount(ctx context.Context, key string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CountAccounts(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Name() string
}

// HistoryStore keeps one snapshot per (account key, calendar day)
type HistoryStore interface {
	UpsertSnapshot(ctx context.Context, snap *models.HistorySnapshot) error
	// History returns snapshots with date >= since (YYYY-MM-DD), oldest first
	History(ctx context.Context, key string, since string) ([]models.HistorySnapshot, error)
}
