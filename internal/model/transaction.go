package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags how a transaction came about. The zero value marks
// legacy, untagged data.
type TransactionKind string

const (
	KindUntagged       TransactionKind = ""
	KindStandard       TransactionKind = "standard"
	KindOpeningBalance TransactionKind = "opening-balance"
	KindPayroll        TransactionKind = "payroll"
	KindClosing        TransactionKind = "closing"
	KindCorrection     TransactionKind = "correction"
	KindDepreciation   TransactionKind = "depreciation"
	KindCreditCard     TransactionKind = "credit-card"
	KindReversal       TransactionKind = "reversal"
)

// Valid reports whether k is a known kind (including untagged).
func (k TransactionKind) Valid() bool {
	switch k {
	case KindUntagged, KindStandard, KindOpeningBalance, KindPayroll, KindClosing,
		KindCorrection, KindDepreciation, KindCreditCard, KindReversal:
		return true
	}
	return false
}

// Line is one debit/credit posting of a transaction.
type Line struct {
	AccountID  int
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	CostCenter string
	Project    string
}

// Transaction is a balanced set of lines booked on one date.
type Transaction struct {
	ID          string // "YYYY-MM-NNN", assigned by the journal store
	Date        time.Time
	Kind        TransactionKind
	Description string
	Reference   string // document number, e.g. "RE-2024-17" or "EB-2025"
	ContactID   string
	DocumentID  string // originating invoice/document
	Lines       []Line

	ReversesID string // set on a reversal or cancellation, points at the original
	ReversedBy string // set exactly once on the original
	Reason     string
}

// IsReversed reports whether another transaction reverses this one.
func (t Transaction) IsReversed() bool {
	return t.ReversedBy != ""
}

// Totals returns the sum of debits and the sum of credits.
func (t Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range t.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Imbalance returns Σdebit − Σcredit.
func (t Transaction) Imbalance() decimal.Decimal {
	d, c := t.Totals()
	return d.Sub(c)
}

// Touches reports whether any line posts to accountID.
func (t Transaction) Touches(accountID int) bool {
	for _, l := range t.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}
