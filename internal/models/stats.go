package models

// PeriodStat is profit over one period and that profit as a percent of balance.
// Trades is always 0; terminals do not report trade counts.
type PeriodStat struct {
	Profit  float64 `json:"profit"`
	Percent float64 `json:"percent"`
	Trades  int     `json:"trades"`
}

type PeriodStats struct {
	Daily   PeriodStat `json:"daily"`
	Weekly  PeriodStat `json:"weekly"`
	Monthly PeriodStat `json:"monthly"`
	Yearly  PeriodStat `json:"yearly"`
}

type Totals struct {
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
	Profit  float64 `json:"profit"`
}

// AccountView is an Account annotated with its own period statistics
type AccountView struct {
	Account
	DailyStats   PeriodStat `json:"daily_stats"`
	WeeklyStats  PeriodStat `json:"weekly_stats"`
	MonthlyStats PeriodStat `json:"monthly_stats"`
	YearlyStats  PeriodStat `json:"yearly_stats"`
}

type GroupStats struct {
	Count        int           `json:"count"`
	TotalBalance float64       `json:"total_balance"`
	TotalProfit  float64       `json:"total_profit"`
	Accounts     []AccountView `json:"accounts"`
}

// Stats is the win-rate and profit distribution across all accounts
type Stats struct {
	WinRate            float64 `json:"win_rate"`
	ProfitableAccounts int     `json:"profitable_accounts"`
	LosingAccounts     int     `json:"losing_accounts"`
	AvgProfit          float64 `json:"avg_profit"`
}

// AccountsOverview is the full dashboard payload
type AccountsOverview struct {
	Count       int                    `json:"count"`
	Total       Totals                 `json:"total"`
	PeriodStats PeriodStats            `json:"period_stats"`
	Groups      map[string]*GroupStats `json:"groups"`
	Drawdown    float64                `json:"drawdown"`
	Stats
}

// GroupSummary is one row of the per-group rollup
type GroupSummary struct {
	GroupName      string  `json:"group_name"`
	AccountCount   int     `json:"account_count"`
	TotalBalance   float64 `json:"total_balance"`
	TotalEquity    float64 `json:"total_equity"`
	TotalProfit    float64 `json:"total_profit"`
	TotalDailyPL   float64 `json:"total_daily_pl"`
	TotalWeeklyPL  float64 `json:"total_weekly_pl"`
	TotalMonthlyPL float64 `json:"total_monthly_pl"`
	TotalYearlyPL  float64 `json:"total_yearly_pl"`
	AvgDD          float64 `json:"avg_dd"`
}

// EmptyOverview is the zeroed payload served for an empty or unreachable store
func EmptyOverview() AccountsOverview {
	return AccountsOverview{Groups: map[string]*GroupStats{}}
}
