package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/trading-dashboard/internal/apperr"
	"github.com/codyseavey/trading-dashboard/internal/models"
)

// SQLiteStore persists accounts and their daily history through gorm
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore wraps an opened, migrated database
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// UpsertAccount replaces the whole row for acc.AccountKey
func (s *SQLiteStore) UpsertAccount(ctx context.Context, acc *models.Account) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_key"}},
			UpdateAll: true,
		}).
		Create(acc).Error
	return apperr.Store("upsert account", err)
}

func (s *SQLiteStore) GetAccount(ctx context.Context, key string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).First(&acc, "account_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "account", Key: key}
	}
	if err != nil {
		return nil, apperr.Store("get account", err)
	}
	return &acc, nil
}

// ListAccounts returns every account; ordering is left to the aggregation engine
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, apperr.Store("list accounts", err)
	}
	return accounts, nil
}

func (s *SQLiteStore) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return 0, apperr.Store("count accounts", err)
	}
	return count, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Store("ping", err)
	}
	return apperr.Store("ping", sqlDB.PingContext(ctx))
}

// UpsertSnapshot writes today's row for the account, replacing any earlier one from the same day
func (s *SQLiteStore) UpsertSnapshot(ctx context.Context, snap *models.HistorySnapshot) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_key"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_number", "balance", "equity", "profit",
				"daily_pl", "weekly_pl", "monthly_pl", "yearly_pl",
				"dd_percent", "timestamp",
			}),
		}).
		Create(snap).Error
	return apperr.Store("upsert snapshot", err)
}

func (s *SQLiteStore) History(ctx context.Context, key string, since string) ([]models.HistorySnapshot, error) {
	var snapshots []models.HistorySnapshot
	err := s.db.WithContext(ctx).
		Where("account_key = ? AND date >= ?", key, since).
		Order("date ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, apperr.Store("history", err)
	}
	return snapshots, nil
}
