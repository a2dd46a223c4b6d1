package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func numPtr(f float64) *float64 { return &f }
func idPtr(n int64) *int64 { return &n }

func TestMissingFields(t *testing.T) {
	full := AccountReport{
		AccountNumber: idPtr(1),
		AccountName:   strPtr("Main"),
		Broker:        strPtr("ICM"),
		Balance:       numPtr(0),
		Equity:        numPtr(0),
	}

	tests := []struct {
		name   string
		mutate func(r *AccountReport)
		mode   KeyMode
		want   []string
	}{
		{"complete number mode", func(r *AccountReport) {}, KeyModeNumber, nil},
		{"zero balance is present", func(r *AccountReport) { r.Balance = numPtr(0) }, KeyModeNumber, nil},
		{"missing balance", func(r *AccountReport) { r.Balance = nil }, KeyModeNumber, []string{"balance"}},
		{"blank broker", func(r *AccountReport) { r.Broker = strPtr("  ") }, KeyModeNumber, []string{"broker"}},
		{"missing number", func(r *AccountReport) { r.AccountNumber = nil }, KeyModeNumber, []string{"account_number"}},
		{"composite ignores number", func(r *AccountReport) { r.AccountNumber = nil }, KeyModeComposite, nil},
		{"composite needs name", func(r *AccountReport) { r.AccountName = nil }, KeyModeComposite, []string{"account_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := full
			tt.mutate(&r)
			got := r.MissingFields(tt.mode)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToAccountDefaults(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	r := AccountReport{
		AccountNumber: idPtr(5001),
		Broker:        strPtr(" ICM "),
		Balance:       numPtr(1000),
		Equity:        numPtr(990),
		GroupName:     strPtr(""),
		DailyPL:       numPtr(-12.5),
	}

	acc := r.ToAccount(KeyModeNumber, now)

	if acc.AccountKey != "5001" {
		t.Errorf("AccountKey = %q, want 5001", acc.AccountKey)
	}
	if acc.AccountName != "5001" {
		t.Errorf("AccountName = %q, want account number", acc.AccountName)
	}
	if acc.AccountType != DefaultAccountType {
		t.Errorf("AccountType = %q, want %q", acc.AccountType, DefaultAccountType)
	}
	if acc.GroupName != DefaultGroup {
		t.Errorf("GroupName = %q, want %q", acc.GroupName, DefaultGroup)
	}
	if acc.Broker != "ICM" {
		t.Errorf("Broker = %q, want trimmed ICM", acc.Broker)
	}
	if acc.DailyPL != -12.5 || acc.WeeklyPL != 0 || acc.Margin != 0 {
		t.Errorf("unexpected numeric defaults: %+v", acc)
	}
	if !acc.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", acc.LastUpdated, now)
	}
}

func TestToAccountComposite(t *testing.T) {
	r := AccountReport{
		AccountName: strPtr("Swing"),
		Broker:      strPtr("Exness"),
		Balance:     numPtr(1),
		Equity:      numPtr(1),
	}

	acc := r.ToAccount(KeyModeComposite, time.Now())
	if acc.AccountKey != "Swing@Exness" {
		t.Errorf("AccountKey = %q, want Swing@Exness", acc.AccountKey)
	}
	if acc.AccountNumber != 0 {
		t.Errorf("AccountNumber = %d, want 0", acc.AccountNumber)
	}
}

func TestNewHistorySnapshot(t *testing.T) {
	acc := Account{AccountKey: "9", AccountNumber: 9, Balance: 100, Equity: 80, Profit: -20, DDPercent: 20}
	at := time.Date(2026, 1, 2, 23, 59, 0, 0, time.Local)

	snap := NewHistorySnapshot(&acc, at)
	if snap.Date != "2026-01-02" {
		t.Errorf("Date = %q, want 2026-01-02", snap.Date)
	}
	if snap.Balance != 100 || snap.Equity != 80 || snap.DDPercent != 20 || snap.Profit != -20 {
		t.Errorf("snapshot values not copied: %+v", snap)
	}
}

func TestGroupNormalization(t *testing.T) {
	if got := (&Account{}).Group(); got != DefaultGroup {
		t.Errorf("Group() = %q, want %q", got, DefaultGroup)
	}
	if got := (&Account{GroupName: "Prop"}).Group(); got != "Prop" {
		t.Errorf("Group() = %q, want Prop", got)
	}
}

func TestAccountReportAccountNumberForms(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *int64
		wantErr bool
	}{
		{"integer", `{"account_number": 1001}`, idPtr(1001), false},
		{"integral float", `{"account_number": 1001.0}`, idPtr(1001), false},
		{"exponent", `{"account_number": 1.001e3}`, idPtr(1001), false},
		{"numeric string", `{"account_number": "1001"}`, idPtr(1001), false},
		{"absent", `{"broker": "ICM"}`, nil, false},
		{"null", `{"account_number": null}`, nil, false},
		{"fractional", `{"account_number": 1001.5}`, nil, true},
		{"text", `{"account_number": "main"}`, nil, true},
		{"bool", `{"account_number": true}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r AccountReport
			err := json.Unmarshal([]byte(tt.body), &r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(r.AccountNumber, tt.want) {
				t.Errorf("AccountNumber = %v, want %v", r.AccountNumber, tt.want)
			}
		})
	}
}

func TestAccountReportUnmarshalKeepsOtherFields(t *testing.T) {
	var r AccountReport
	body := `{"account_number": 7.0, "broker": "ICM", "balance": 100.5, "equity": 99, "group_name": "Prop"}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if missing := r.MissingFields(KeyModeNumber); len(missing) != 0 {
		t.Fatalf("MissingFields() = %v, want none", missing)
	}
	acc := r.ToAccount(KeyModeNumber, time.Now())
	if acc.AccountKey != "7" || acc.Balance != 100.5 || acc.GroupName != "Prop" {
		t.Errorf("unexpected account: %+v", acc)
	}
}
