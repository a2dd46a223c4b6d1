package models

import (
	"time"
)

// HistoryDateLayout is the calendar-day format stored in account_history.date
const HistoryDateLayout = "2006-01-02"

// HistorySnapshot stores one account's state for a calendar day.
// (account_key, date) is unique; a later report on the same day replaces it.
type HistorySnapshot struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountKey    string    `json:"account_key" gorm:"not null;uniqueIndex:idx_history_account_date"`
	AccountNumber int64     `json:"account_number"`
	Date          string    `json:"date" gorm:"not null;uniqueIndex:idx_history_account_date"`
	Balance       float64   `json:"balance"`
	Equity        float64   `json:"equity"`
	Profit        float64   `json:"profit"`
	DailyPL       float64   `json:"daily_pl" gorm:"column:daily_pl"`
	WeeklyPL      float64   `json:"weekly_pl" gorm:"column:weekly_pl"`
	MonthlyPL     float64   `json:"monthly_pl" gorm:"column:monthly_pl"`
	YearlyPL      float64   `json:"yearly_pl" gorm:"column:yearly_pl"`
	DDPercent     float64   `json:"dd_percent" gorm:"column:dd_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

func (HistorySnapshot) TableName() string {
	return "account_history"
}

// NewHistorySnapshot captures the account's current values for the day of capturedAt
func NewHistorySnapshot(a *Account, capturedAt time.Time) HistorySnapshot {
	return HistorySnapshot{
		AccountKey:    a.AccountKey,
		AccountNumber: a.AccountNumber,
		Date:          capturedAt.Format(HistoryDateLayout),
		Balance:       a.Balance,
		Equity:        a.Equity,
		Profit:        a.Profit,
		DailyPL:       a.DailyPL,
		WeeklyPL:      a.WeeklyPL,
		MonthlyPL:     a.MonthlyPL,
		YearlyPL:      a.YearlyPL,
		DDPercent:     a.DDPercent,
		Timestamp:     capturedAt,
	}
}
