package model

// AccountType classifies accounts in the chart of accounts. It also fixes the
// account's polarity: the side on which its balance naturally grows.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five known types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this type are debit minus credit.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// BalanceSheet reports whether accounts of this type appear on the balance sheet
// (as opposed to the income statement).
func (t AccountType) BalanceSheet() bool {
	return t == AccountTypeAsset || t == AccountTypeLiability || t == AccountTypeEquity
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          int
	Code        string // four-digit account number, drives classification and sort order
	Name        string
	Type        AccountType
	Subledger   bool // open-item account (receivables, payables) carrying contact balances
	Description string
}
