package services

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

// Sort fields accepted by BuildOverview. Anything else sorts by identity.
const (
	SortAccountNumber = "account_number"
	SortBroker        = "broker"
	SortProfit        = "profit"
	SortGroupName     = "group_name"
	SortBalance       = "balance"
	SortAccountName   = "account_name"
	SortDailyPL       = "daily_pl"
	SortWeeklyPL      = "weekly_pl"
	SortMonthlyPL     = "monthly_pl"
	SortYearlyPL      = "yearly_pl"
	SortDDPercent     = "dd_percent"
)

var numericSortFields = map[string]func(*models.Account) float64{
	SortProfit:    func(a *models.Account) float64 { return a.Profit },
	SortBalance:   func(a *models.Account) float64 { return a.Balance },
	SortDailyPL:   func(a *models.Account) float64 { return a.DailyPL },
	SortWeeklyPL:  func(a *models.Account) float64 { return a.WeeklyPL },
	SortMonthlyPL: func(a *models.Account) float64 { return a.MonthlyPL },
	SortYearlyPL:  func(a *models.Account) float64 { return a.YearlyPL },
	SortDDPercent: func(a *models.Account) float64 { return a.DDPercent },
}

var textSortFields = map[string]func(*models.Account) string{
	SortBroker:      func(a *models.Account) string { return a.Broker },
	SortGroupName:   func(a *models.Account) string { return a.Group() },
	SortAccountName: func(a *models.Account) string { return a.AccountName },
}

// NormalizeSort maps user input onto the allow-list and a direction.
// Unknown fields become account_number; only "desc" sorts descending.
func NormalizeSort(field, order string) (string, bool) {
	field = strings.ToLower(strings.TrimSpace(field))
	_, numeric := numericSortFields[field]
	_, text := textSortFields[field]
	if !numeric && !text {
		field = SortAccountNumber
	}
	return field, strings.EqualFold(strings.TrimSpace(order), "desc")
}

// compareIdentity orders by account number, then key, so composite-key
// deployments (where numbers may be zero) still sort deterministically
func compareIdentity(a, b *models.Account) int {
	if c := cmp.Compare(a.AccountNumber, b.AccountNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.AccountKey, b.AccountKey)
}

// SortAccounts orders accounts in place. Ties fall back to identity ascending.
func SortAccounts(accounts []models.Account, field, order string) {
	field, desc := NormalizeSort(field, order)

	primary := func(a, b *models.Account) int { return compareIdentity(a, b) }
	if f, ok := numericSortFields[field]; ok {
		primary = func(a, b *models.Account) int { return cmp.Compare(f(a), f(b)) }
	} else if f, ok := textSortFields[field]; ok {
		primary = func(a, b *models.Account) int { return cmp.Compare(f(a), f(b)) }
	}

	slices.SortStableFunc(accounts, func(a, b models.Account) int {
		c := primary(&a, &b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return compareIdentity(&a, &b)
	})
}

// BuildOverview computes the dashboard aggregate. accounts is sorted in place.
func BuildOverview(accounts []models.Account, sortField, order string) models.AccountsOverview {
	overview := models.EmptyOverview()
	if len(accounts) == 0 {
		return overview
	}

	SortAccounts(accounts, sortField, order)

	var daily, weekly, monthly, yearly float64
	for i := range accounts {
		acc := &accounts[i]

		overview.Total.Balance += acc.Balance
		overview.Total.Equity += acc.Equity
		overview.Total.Profit += acc.Profit
		daily += acc.DailyPL
		weekly += acc.WeeklyPL
		monthly += acc.MonthlyPL
		yearly += acc.YearlyPL

		name := acc.Group()
		group, ok := overview.Groups[name]
		if !ok {
			group = &models.GroupStats{Accounts: []models.AccountView{}}
			overview.Groups[name] = group
		}
		group.Count++
		group.TotalBalance += acc.Balance
		group.TotalProfit += acc.Profit
		group.Accounts = append(group.Accounts, newAccountView(acc))
	}

	overview.Count = len(accounts)
	totalBalance := overview.Total.Balance
	overview.PeriodStats = models.PeriodStats{
		Daily:   periodStat(daily, totalBalance),
		Weekly:  periodStat(weekly, totalBalance),
		Monthly: periodStat(monthly, totalBalance),
		Yearly:  periodStat(yearly, totalBalance),
	}
	overview.Drawdown = Drawdown(totalBalance, overview.Total.Equity)
	overview.Stats = BuildStats(accounts)

	return overview
}

func newAccountView(acc *models.Account) models.AccountView {
	return models.AccountView{
		Account:      *acc,
		DailyStats:   periodStat(acc.DailyPL, acc.Balance),
		WeeklyStats:  periodStat(acc.WeeklyPL, acc.Balance),
		MonthlyStats: periodStat(acc.MonthlyPL, acc.Balance),
		YearlyStats:  periodStat(acc.YearlyPL, acc.Balance),
	}
}

func periodStat(profit, balance float64) models.PeriodStat {
	return models.PeriodStat{Profit: profit, Percent: PercentOf(profit, balance)}
}

// PercentOf returns value as a percent of balance rounded to 2 places, or 0 when balance <= 0
func PercentOf(value, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return round(value/balance*100, 2)
}

// Drawdown is (balance-equity)/balance as a percent, floored at 0
func Drawdown(balance, equity float64) float64 {
	if balance <= 0 {
		return 0
	}
	return math.Max(0, round((balance-equity)/balance*100, 2))
}

// BuildStats computes win rate and the profit distribution.
// Accounts with exactly zero profit are neither profitable nor losing.
func BuildStats(accounts []models.Account) models.Stats {
	var stats models.Stats
	if len(accounts) == 0 {
		return stats
	}

	var totalProfit float64
	for i := range accounts {
		p := accounts[i].Profit
		totalProfit += p
		switch {
		case p > 0:
			stats.ProfitableAccounts++
		case p < 0:
			stats.LosingAccounts++
		}
	}

	n := float64(len(accounts))
	stats.WinRate = round(float64(stats.ProfitableAccounts)/n*100, 1)
	stats.AvgProfit = totalProfit / n
	return stats
}

// BuildSummary rolls accounts up per group, ordered by group name
func BuildSummary(accounts []models.Account) []models.GroupSummary {
	byGroup := make(map[string]*models.GroupSummary)
	ddSums := make(map[string]float64)

	for i := range accounts {
		acc := &accounts[i]
		name := acc.Group()
		row, ok := byGroup[name]
		if !ok {
			row = &models.GroupSummary{GroupName: name}
			byGroup[name] = row
		}
		row.AccountCount++
		row.TotalBalance += acc.Balance
		row.TotalEquity += acc.Equity
		row.TotalProfit += acc.Profit
		row.TotalDailyPL += acc.DailyPL
		row.TotalWeeklyPL += acc.WeeklyPL
		row.TotalMonthlyPL += acc.MonthlyPL
		row.TotalYearlyPL += acc.YearlyPL
		ddSums[name] += acc.DDPercent
	}

	summary := make([]models.GroupSummary, 0, len(byGroup))
	for name, row := range byGroup {
		row.AvgDD = ddSums[name] / float64(row.AccountCount)
		summary = append(summary, *row)
	}
	slices.SortFunc(summary, func(a, b models.GroupSummary) int {
		return cmp.Compare(a.GroupName, b.GroupName)
	})
	return summary
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
