package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codyseavey/trading-dashboard/internal/logging"
	"github.com/codyseavey/trading-dashboard/internal/models"
)

func TestOpenCreatesSchema(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "dash.db"), logging.Nop())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("accounts"))
	assert.True(t, db.Migrator().HasTable("account_history"))
	assert.True(t, db.Migrator().HasIndex(&models.HistorySnapshot{}, "idx_history_account_date"))
}

func TestOpenCleansDuplicateHistoryAndBlankGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, legacy.Exec(`CREATE TABLE account_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_key TEXT NOT NULL, account_number INTEGER, date TEXT NOT NULL,
		balance REAL, equity REAL)`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO account_history (account_key, account_number, date, balance, equity) VALUES
		('1001', 1001, '2026-10-01', 100, 100),
		('1001', 1001, '2026-10-01', 200, 190),
		('1001', 1001, '2026-10-02', 300, 300)`).Error)
	require.NoError(t, legacy.Exec(`CREATE TABLE accounts (account_key TEXT PRIMARY KEY, group_name TEXT DEFAULT 'Uncategorized', account_name TEXT, account_type TEXT DEFAULT 'USD')`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO accounts (account_key, group_name) VALUES ('1001', ''), ('1002', NULL), ('1003', 'Prop')`).Error)
	sqlDB, err := legacy.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err := Open(path, logging.Nop())
	require.NoError(t, err)

	var snaps []models.HistorySnapshot
	require.NoError(t, db.Order("date ASC").Find(&snaps).Error)
	require.Len(t, snaps, 2)
	assert.Equal(t, 200.0, snaps[0].Balance, "newest row of the day is kept")

	var accounts []models.Account
	require.NoError(t, db.Order("account_key ASC").Find(&accounts).Error)
	require.Len(t, accounts, 3)
	assert.Equal(t, models.DefaultGroup, accounts[0].GroupName)
	assert.Equal(t, models.DefaultGroup, accounts[1].GroupName)
	assert.Equal(t, "Prop", accounts[2].GroupName)
	assert.Equal(t, "1001", accounts[0].AccountName)
	assert.Equal(t, models.DefaultAccountType, accounts[0].AccountType)
}

// flaskSchema is the layout written by the first version of the dashboard,
// keyed by account_number with no account_key column
const flaskSchema = `
CREATE TABLE accounts (
	account_number INTEGER PRIMARY KEY,
	account_name TEXT,
	account_type TEXT,
	group_name TEXT,
	broker TEXT,
	balance REAL,
	equity REAL,
	margin REAL,
	free_margin REAL,
	profit REAL,
	daily_pl REAL,
	weekly_pl REAL,
	monthly_pl REAL,
	yearly_pl REAL,
	dd_percent REAL,
	last_updated TIMESTAMP
);
CREATE TABLE account_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_number INTEGER,
	date DATE,
	balance REAL,
	equity REAL,
	daily_pl REAL,
	weekly_pl REAL,
	monthly_pl REAL,
	yearly_pl REAL,
	dd_percent REAL,
	timestamp TIMESTAMP,
	UNIQUE(account_number, date)
);`

func TestOpenUpgradesAccountNumberSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trading_dashboard.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, legacy.Exec(flaskSchema).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO accounts
		(account_number, account_name, account_type, group_name, broker, balance, equity, margin, free_margin, profit,
		 daily_pl, weekly_pl, monthly_pl, yearly_pl, dd_percent, last_updated) VALUES
		(1001, 'Main', 'USD', 'Prop', 'ICM', 1000, 950, 10, 940, -50, -5, NULL, 20, 30, 5, '2026-10-01 12:00:00.123456'),
		(1002, NULL, NULL, NULL, 'Exness', 500, 500, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL, NULL)`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO account_history
		(account_number, date, balance, equity, daily_pl, weekly_pl, monthly_pl, yearly_pl, dd_percent, timestamp) VALUES
		(1001, '2026-09-30', 990, 980, 1, 2, 3, 4, 1, '2026-09-30 23:00:00.000001'),
		(1001, '2026-10-01', 1000, 950, -5, NULL, 20, 30, 5, '2026-10-01 12:00:00.123456')`).Error)
	sqlDB, err := legacy.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err := Open(path, logging.Nop())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasColumn(&models.Account{}, "account_key"))
	assert.False(t, db.Migrator().HasTable("accounts_legacy"))
	assert.False(t, db.Migrator().HasTable("account_history_legacy"))
	assert.True(t, db.Migrator().HasIndex(&models.HistorySnapshot{}, "idx_history_account_date"))

	var accounts []models.Account
	require.NoError(t, db.Order("account_key ASC").Find(&accounts).Error)
	require.Len(t, accounts, 2)
	assert.Equal(t, "1001", accounts[0].AccountKey)
	assert.Equal(t, int64(1001), accounts[0].AccountNumber)
	assert.Equal(t, "Main", accounts[0].AccountName)
	assert.Equal(t, "Prop", accounts[0].GroupName)
	assert.Equal(t, 950.0, accounts[0].Equity)
	assert.Equal(t, 20.0, accounts[0].MonthlyPL)
	assert.Equal(t, "1002", accounts[1].AccountName)
	assert.Equal(t, models.DefaultGroup, accounts[1].GroupName)
	assert.Equal(t, models.DefaultAccountType, accounts[1].AccountType)
	assert.Zero(t, accounts[1].Profit)

	var snaps []models.HistorySnapshot
	require.NoError(t, db.Where("account_key = ?", "1001").Order("date ASC").Find(&snaps).Error)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2026-09-30", snaps[0].Date)
	assert.Equal(t, 1000.0, snaps[1].Balance)
	assert.Zero(t, snaps[1].WeeklyPL)

	// the unique (account_key, date) index is live on the rebuilt table
	dup := models.HistorySnapshot{AccountKey: "1001", AccountNumber: 1001, Date: "2026-10-01"}
	assert.Error(t, db.Create(&dup).Error)

	sqlDB, err = db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// a second start finds nothing left to upgrade
	db, err = Open(path, logging.Nop())
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
