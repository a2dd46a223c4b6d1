package models

import (
	"time"
)

// DefaultGroup is used for accounts reported without a group name
const DefaultGroup = "Uncategorized"

// DefaultAccountType is the currency assumed when a terminal omits it
const DefaultAccountType = "USD"

// KeyMode selects how an account's identity is derived from a report.
// A deployment uses exactly one mode.
type KeyMode string

const (
	KeyModeNumber    KeyMode = "number"    // account_number
	KeyModeComposite KeyMode = "composite" // account_name@broker
)

// Account is the latest known state of one trading account
type Account struct {
	AccountKey    string    `json:"account_key" gorm:"primaryKey"`
	AccountNumber int64     `json:"account_number" gorm:"index"`
	AccountName   string    `json:"account_name"`
	AccountType   string    `json:"account_type" gorm:"default:'USD'"`
	GroupName     string    `json:"group_name" gorm:"index;default:'Uncategorized'"`
	Broker        string    `json:"broker"`
	Balance       float64   `json:"balance"`
	Equity        float64   `json:"equity"`
	Margin        float64   `json:"margin"`
	FreeMargin    float64   `json:"free_margin"`
	Profit        float64   `json:"profit"`
	DailyPL       float64   `json:"daily_pl" gorm:"column:daily_pl"`
	WeeklyPL      float64   `json:"weekly_pl" gorm:"column:weekly_pl"`
	MonthlyPL     float64   `json:"monthly_pl" gorm:"column:monthly_pl"`
	YearlyPL      float64   `json:"yearly_pl" gorm:"column:yearly_pl"`
	DDPercent     float64   `json:"dd_percent" gorm:"column:dd_percent"`
	LastUpdated   time.Time `json:"last_updated"`
}

func (Account) TableName() string {
	return "accounts"
}

// Group returns the account's group name, normalizing blanks to DefaultGroup
func (a *Account) Group() string {
	if a.GroupName == "" {
		return DefaultGroup
	}
	return a.GroupName
}

// CompositeKey builds the identity used in KeyModeComposite
func CompositeKey(name, broker string) string {
	return name + "@" + broker
}
