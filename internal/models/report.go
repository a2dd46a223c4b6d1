package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxExactFloatInt is the largest integer a float64 represents exactly
const maxExactFloatInt = 1 << 53

// AccountReport is the payload a trading terminal posts on every update.
// Pointer fields distinguish "absent" from zero.
type AccountReport struct {
	AccountNumber *int64   `json:"account_number"`
	AccountName   *string  `json:"account_name"`
	AccountType   *string  `json:"account_type"`
	GroupName     *string  `json:"group_name"`
	Broker        *string  `json:"broker"`
	Balance       *float64 `json:"balance"`
	Equity        *float64 `json:"equity"`
	Margin        *float64 `json:"margin"`
	FreeMargin    *float64 `json:"free_margin"`
	Profit        *float64 `json:"profit"`
	DailyPL       *float64 `json:"daily_pl"`
	WeeklyPL      *float64 `json:"weekly_pl"`
	MonthlyPL     *float64 `json:"monthly_pl"`
	YearlyPL      *float64 `json:"yearly_pl"`
	DDPercent     *float64 `json:"dd_percent"`
}

// UnmarshalJSON accepts account_number as an integer, an integral float (1001.0)
// or a numeric string
func (r *AccountReport) UnmarshalJSON(data []byte) error {
	type plain AccountReport
	aux := struct {
		*plain
		AccountNumber json.RawMessage `json:"account_number"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.AccountNumber = nil
	raw := strings.TrimSpace(string(aux.AccountNumber))
	if raw == "" || raw == "null" {
		return nil
	}
	n, err := parseAccountNumber(raw)
	if err != nil {
		return err
	}
	r.AccountNumber = &n
	return nil
}

func parseAccountNumber(raw string) (int64, error) {
	s := strings.TrimSpace(strings.Trim(raw, `"`))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloatInt {
		return 0, fmt.Errorf("account_number must be an integer, got %s", raw)
	}
	return int64(f), nil
}

// MissingFields lists the required fields absent from the report, in a stable order
func (r *AccountReport) MissingFields(mode KeyMode) []string {
	var missing []string
	if mode == KeyModeComposite {
		if r.AccountName == nil || strings.TrimSpace(*r.AccountName) == "" {
			missing = append(missing, "account_name")
		}
	} else if r.AccountNumber == nil {
		missing = append(missing, "account_number")
	}
	if r.Broker == nil || strings.TrimSpace(*r.Broker) == "" {
		missing = append(missing, "broker")
	}
	if r.Balance == nil {
		missing = append(missing, "balance")
	}
	if r.Equity == nil {
		missing = append(missing, "equity")
	}
	return missing
}

// ToAccount applies defaults and builds the record to store.
// Callers must check MissingFields first.
func (r *AccountReport) ToAccount(mode KeyMode, now time.Time) Account {
	acc := Account{
		Broker:      strings.TrimSpace(*r.Broker),
		AccountType: stringOr(r.AccountType, DefaultAccountType),
		GroupName:   stringOr(r.GroupName, DefaultGroup),
		Balance:     *r.Balance,
		Equity:      *r.Equity,
		Margin:      floatOr(r.Margin),
		FreeMargin:  floatOr(r.FreeMargin),
		Profit:      floatOr(r.Profit),
		DailyPL:     floatOr(r.DailyPL),
		WeeklyPL:    floatOr(r.WeeklyPL),
		MonthlyPL:   floatOr(r.MonthlyPL),
		YearlyPL:    floatOr(r.YearlyPL),
		DDPercent:   floatOr(r.DDPercent),
		LastUpdated: now,
	}
	if r.AccountNumber != nil {
		acc.AccountNumber = *r.AccountNumber
	}

	if mode == KeyModeComposite {
		acc.AccountName = strings.TrimSpace(*r.AccountName)
		acc.AccountKey = CompositeKey(acc.AccountName, acc.Broker)
		return acc
	}

	acc.AccountKey = strconv.FormatInt(acc.AccountNumber, 10)
	acc.AccountName = stringOr(r.AccountName, acc.AccountKey)
	return acc
}

func stringOr(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return strings.TrimSpace(*s)
}

func floatOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
