package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/codyseavey/trading-dashboard/internal/apperr"
	"github.com/codyseavey/trading-dashboard/internal/metrics"
	"github.com/codyseavey/trading-dashboard/internal/models"
)

// DefaultHistoryDays is the history window used when the caller gives none
const DefaultHistoryDays = 30

// ErrHistoryUnavailable is returned by History when no HistoryStore is configured
var ErrHistoryUnavailable = errors.New("history is not recorded by this deployment")

// AccountService ingests terminal reports and serves aggregated views
type AccountService struct {
	accounts AccountStore
	history  HistoryStore // nil when the store is not durable
	keyMode  models.KeyMode
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewAccountService wires the stores. history may be nil.
func NewAccountService(accounts AccountStore, history HistoryStore, keyMode models.KeyMode, log *zap.SugaredLogger) *AccountService {
	return &AccountService{
		accounts: accounts,
		history:  history,
		keyMode:  keyMode,
		log:      log,
		now:      time.Now,
	}
}

// KeyMode reports the identity scheme accounts are stored under
func (s *AccountService) KeyMode() models.KeyMode {
	return s.keyMode
}

// HasHistory reports whether daily snapshots are recorded
func (s *AccountService) HasHistory() bool {
	return s.history != nil
}

// Ingest validates a report, upserts the account and records today's snapshot
func (s *AccountService) Ingest(ctx context.Context, report *models.AccountReport) (*models.Account, error) {
	if missing := report.MissingFields(s.keyMode); len(missing) > 0 {
		metrics.IngestsTotal.WithLabelValues("invalid").Inc()
		return nil, &apperr.ValidationError{Fields: missing}
	}

	now := s.now()
	acc := report.ToAccount(s.keyMode, now)

	if err := s.accounts.UpsertAccount(ctx, &acc); err != nil {
		metrics.IngestsTotal.WithLabelValues("store_error").Inc()
		metrics.StoreErrorsTotal.WithLabelValues("upsert_account").Inc()
		return nil, err
	}
	metrics.IngestsTotal.WithLabelValues("ok").Inc()

	if s.history != nil {
		snap := models.NewHistorySnapshot(&acc, now)
		// Current state is already committed; a failed snapshot is reported, not returned
		if err := s.history.UpsertSnapshot(ctx, &snap); err != nil {
			metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
			s.log.Errorw("failed to save daily snapshot", "account", acc.AccountKey, "date", snap.Date, "error", err)
		} else {
			metrics.SnapshotWritesTotal.WithLabelValues("ok").Inc()
		}
	}

	s.log.Debugw("account updated", "account", acc.AccountKey, "group", acc.GroupName, "balance", acc.Balance)
	return &acc, nil
}

// Overview returns the full aggregate. On store failure it returns the zeroed
// overview together with the error so callers can still render a body.
func (s *AccountService) Overview(ctx context.Context, sortField, order string) (models.AccountsOverview, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_accounts").Inc()
		return models.EmptyOverview(), err
	}

	overview := BuildOverview(accounts, sortField, order)
	metrics.UpdateOverviewMetrics(&overview)
	return overview, nil
}

// Stats returns win rate and profit distribution, zeroed on failure
func (s *AccountService) Stats(ctx context.Context) (models.Stats, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_accounts").Inc()
		return models.Stats{}, err
	}
	return BuildStats(accounts), nil
}

// Summary returns the per-group rollup, empty on failure
func (s *AccountService) Summary(ctx context.Context) ([]models.GroupSummary, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_accounts").Inc()
		return []models.GroupSummary{}, err
	}
	return BuildSummary(accounts), nil
}

// GetAccount returns one stored account
func (s *AccountService) GetAccount(ctx context.Context, key string) (*models.Account, error) {
	return s.accounts.GetAccount(ctx, key)
}

// History returns the account's snapshots from the last days days, oldest first.
// days < 0 is treated as DefaultHistoryDays.
func (s *AccountService) History(ctx context.Context, key string, days int) ([]models.HistorySnapshot, error) {
	if s.history == nil {
		return []models.HistorySnapshot{}, ErrHistoryUnavailable
	}
	if days < 0 {
		days = DefaultHistoryDays
	}

	since := s.now().AddDate(0, 0, -days).Format(models.HistoryDateLayout)
	snapshots, err := s.history.History(ctx, key, since)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("history").Inc()
		return []models.HistorySnapshot{}, err
	}
	if snapshots == nil {
		snapshots = []models.HistorySnapshot{}
	}
	return snapshots, nil
}

// HealthStatus reports store reachability as data
type HealthStatus struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Database      string `json:"database"`
	Store         string `json:"store"`
	AccountsCount int64  `json:"accounts_count"`
	Error         string `json:"error,omitempty"`
}

// Healthy reports whether the store answered
func (h HealthStatus) Healthy() bool {
	return h.Status == "ok"
}

// Health pings the store and counts accounts. It never returns an error;
// failures are described in the result.
func (s *AccountService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: s.now().Format(time.RFC3339),
		Database:  "connected",
		Store:     s.accounts.Name(),
	}

	err := s.accounts.Ping(ctx)
	if err == nil {
		status.AccountsCount, err = s.accounts.CountAccounts(ctx)
	}
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("health").Inc()
		status.Status = "error"
		status.Database = "error"
		status.Error = err.Error()
		status.AccountsCount = 0
	}
	return status
}
