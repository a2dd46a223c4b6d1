package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

// migrateLegacyKeys rebuilds accounts and account_history tables that are keyed by
// account_number only. Each is renamed aside, recreated from the model and refilled
// with account_key = account_number. NULLs become zero values so rows scan into the models.
func migrateLegacyKeys(db *gorm.DB, log *zap.SugaredLogger) error {
	migrator := db.Migrator()
	legacyAccounts := migrator.HasTable(&models.Account{}) && !migrator.HasColumn(&models.Account{}, "account_key")
	legacyHistory := migrator.HasTable(&models.HistorySnapshot{}) && !migrator.HasColumn(&models.HistorySnapshot{}, "account_key")
	if !legacyAccounts && !legacyHistory {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if legacyAccounts {
			if err := rebuildTable(tx, &models.Account{}, "accounts", `
				INSERT INTO accounts (account_key, account_number, account_name, account_type, group_name, broker,
					balance, equity, margin, free_margin, profit,
					daily_pl, weekly_pl, monthly_pl, yearly_pl, dd_percent, last_updated)
				SELECT CAST(account_number AS TEXT), account_number,
					COALESCE(account_name, ''), COALESCE(account_type, ''), COALESCE(group_name, ''), COALESCE(broker, ''),
					COALESCE(balance, 0), COALESCE(equity, 0), COALESCE(margin, 0), COALESCE(free_margin, 0), COALESCE(profit, 0),
					COALESCE(daily_pl, 0), COALESCE(weekly_pl, 0), COALESCE(monthly_pl, 0), COALESCE(yearly_pl, 0),
					COALESCE(dd_percent, 0), COALESCE(last_updated, CURRENT_TIMESTAMP)
				FROM accounts_legacy
				WHERE account_number IS NOT NULL`, log); err != nil {
				return err
			}
		}

		if legacyHistory {
			if err := rebuildTable(tx, &models.HistorySnapshot{}, "account_history", `
				INSERT INTO account_history (id, account_key, account_number, date,
					balance, equity, profit, daily_pl, weekly_pl, monthly_pl, yearly_pl, dd_percent, timestamp)
				SELECT id, CAST(account_number AS TEXT), account_number, date,
					COALESCE(balance, 0), COALESCE(equity, 0), 0,
					COALESCE(daily_pl, 0), COALESCE(weekly_pl, 0), COALESCE(monthly_pl, 0), COALESCE(yearly_pl, 0),
					COALESCE(dd_percent, 0), COALESCE(timestamp, CURRENT_TIMESTAMP)
				FROM account_history_legacy
				WHERE account_number IS NOT NULL AND date IS NOT NULL`, log); err != nil {
				return err
			}
		}
		return nil
	})
}

// rebuildTable moves table to <table>_legacy, creates it from model and copies rows with copySQL
func rebuildTable(tx *gorm.DB, model any, table, copySQL string, log *zap.SugaredLogger) error {
	legacy := table + "_legacy"
	if err := tx.Migrator().RenameTable(table, legacy); err != nil {
		return fmt.Errorf("rename %s: %w", table, err)
	}
	if err := tx.Migrator().CreateTable(model); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	result := tx.Exec(copySQL)
	if result.Error != nil {
		return fmt.Errorf("copy %s: %w", table, result.Error)
	}
	if err := tx.Migrator().DropTable(legacy); err != nil {
		return fmt.Errorf("drop %s: %w", legacy, err)
	}

	log.Infof("Backfilled account_key for %d %s rows", result.RowsAffected, table)
	return nil
}

// cleanupDuplicateHistory removes duplicate (account_key, date) rows before the unique index is added.
// The newest row per day wins, matching replace-on-reingest semantics.
func cleanupDuplicateHistory(db *gorm.DB, log *zap.SugaredLogger) error {
	if !db.Migrator().HasTable(&models.HistorySnapshot{}) {
		return nil
	}
	if !db.Migrator().HasColumn(&models.HistorySnapshot{}, "account_key") {
		return nil
	}

	result := db.Exec(`
		DELETE FROM account_history
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM account_history
			GROUP BY account_key, date
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Infof("Cleaned up %d duplicate account_history entries", result.RowsAffected)
	}
	return nil
}

// RunMigrations runs idempotent data fixes after schema changes
func RunMigrations(db *gorm.DB, log *zap.SugaredLogger) error {
	if err := migrateGroupNames(db, log); err != nil {
		return err
	}
	return migrateAccountDefaults(db, log)
}

// migrateGroupNames normalizes NULL/blank group names written by older terminals
func migrateGroupNames(db *gorm.DB, log *zap.SugaredLogger) error {
	result := db.Model(&models.Account{}).
		Where("group_name IS NULL OR TRIM(group_name) = ''").
		Update("group_name", models.DefaultGroup)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Infof("Migrated %d accounts to group %q", result.RowsAffected, models.DefaultGroup)
	}
	return nil
}

// migrateAccountDefaults fills account_type and account_name where older rows left them empty
func migrateAccountDefaults(db *gorm.DB, log *zap.SugaredLogger) error {
	result := db.Model(&models.Account{}).
		Where("account_type IS NULL OR account_type = ''").
		Update("account_type", models.DefaultAccountType)
	if result.Error != nil {
		log.Warnw("failed to default account_type", "error", result.Error)
	}

	result = db.Exec(`UPDATE accounts SET account_name = account_key WHERE account_name IS NULL OR account_name = ''`)
	if result.Error != nil {
		log.Warnw("failed to default account_name", "error", result.Error)
	}
	return nil
}
