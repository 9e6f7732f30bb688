// Package closing derives the carry-forward entry that closes a fiscal year
// and the correction that cancels it again.
package closing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/accounts"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// ErrNothingToCarryForward is returned when every balance sheet account is
// zero at year end.
var ErrNothingToCarryForward = errors.New("no balances to carry forward")

// Chart is the chart of accounts as the closing engine needs it.
type Chart interface {
	ledger.Chart
	ByCode(code string) (model.Account, bool)
}

// Reference returns the reference of the opening entry for year.
func Reference(year int) string {
	return fmt.Sprintf("EB-%d", year)
}

// BuildClosingEntry returns the opening-balance transaction that carries the
// balance sheet of year into year+1. The transaction has no ID yet.
//
// Each non-zero balance sheet account gets one line restoring its balance on
// its natural side (or the other side if the balance is negative) and one
// offsetting line on the clearing account.
func BuildClosingEntry(j *ledger.Journal, chart Chart, year int, clearingCode string) (model.Transaction, error) {
	clearing, ok := chart.ByCode(clearingCode)
	if !ok {
		return model.Transaction{}, &accounts.MissingAccountError{Code: clearingCode, Purpose: "carry-forward clearing"}
	}

	m := ledger.NewMemo(j, chart)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	var lines []model.Line
	for _, acct := range chart.All() {
		if !acct.Type.BalanceSheet() || acct.ID == clearing.ID {
			continue
		}
		bal := m.AccountStats(acct.ID, yearEnd).EndingBalance
		if bal.Round(2).IsZero() {
			continue
		}
		line, offset := carry(acct, clearing.ID, bal)
		lines = append(lines, line, offset)
	}
	if len(lines) == 0 {
		return model.Transaction{}, fmt.Errorf("closing %d: %w", year, ErrNothingToCarryForward)
	}

	return model.Transaction{
		Date:        time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:        model.KindOpeningBalance,
		Description: fmt.Sprintf("Saldenvortrag %d", year),
		Reference:   Reference(year + 1),
		Lines:       lines,
	}, nil
}

// carry returns the account line that reopens bal and its clearing offset.
func carry(acct model.Account, clearingID int, bal decimal.Decimal) (model.Line, model.Line) {
	amt := bal.Abs()
	onDebit := acct.Type.DebitNormal() == bal.IsPositive()

	line := model.Line{AccountID: acct.ID, Debit: decimal.Zero, Credit: decimal.Zero}
	offset := model.Line{AccountID: clearingID, Debit: decimal.Zero, Credit: decimal.Zero}
	if onDebit {
		line.Debit = amt
		offset.Credit = amt
	} else {
		line.Credit = amt
		offset.Debit = amt
	}
	return line, offset
}

// FindOpeningEntry returns the uncancelled carry-forward entry dated in year,
// if any. Only entries tagged as opening balance count.
func FindOpeningEntry(j *ledger.Journal, year int) (model.Transaction, bool) {
	for _, t := range j.Transactions() {
		if t.Date.Year() != year || !ledger.IsCarryForward(t) || j.IsCancelled(t.ID) {
			continue
		}
		return t, true
	}
	return model.Transaction{}, false
}

// BuildClosingReversal returns the correction that cancels an opening entry:
// the same lines with debit and credit swapped, on the same date.
func BuildClosingReversal(opening model.Transaction) model.Transaction {
	lines := make([]model.Line, len(opening.Lines))
	for i, l := range opening.Lines {
		lines[i] = l
		lines[i].Debit, lines[i].Credit = l.Credit, l.Debit
	}
	return model.Transaction{
		Date:        opening.Date,
		Kind:        model.KindCorrection,
		Description: "Storno: " + opening.Description,
		Reference:   "ST-" + opening.Reference,
		ContactID:   opening.ContactID,
		DocumentID:  opening.DocumentID,
		ReversesID:  opening.ID,
		Lines:       lines,
	}
}
