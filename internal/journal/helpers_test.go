package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[int]bool
}

func (m *mockAccounts) Exists(id int) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...int) *mockAccounts {
	m := &mockAccounts{ids: make(map[int]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

var defaultAccounts = newMockAccounts(1200, 1400, 1776, 4210, 8400, 9000)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sale is the invoice-paid-by-bank example: Bank 119 / Revenue 100 + VAT 19.
func sale(d time.Time) model.Transaction {
	return model.Transaction{
		Date:        d,
		Kind:        model.KindStandard,
		Description: "Rechnung 17",
		Reference:   "RE-17",
		ContactID:   "K-100",
		DocumentID:  "INV-17",
		Lines: []model.Line{
			{AccountID: 1200, Debit: dec("119.00")},
			{AccountID: 8400, Credit: dec("100.00"), CostCenter: "KST1"},
			{AccountID: 1776, Credit: dec("19.00")},
		},
	}
}
