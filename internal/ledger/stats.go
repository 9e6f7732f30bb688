package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// LedgerStats is the balance of one account or contact as of a date.
//
// YTD and month figures exclude opening-balance transactions. Amounts are the
// raw sums of the debit and credit columns, so reversal lines with negated
// amounts reduce them.
type LedgerStats struct {
	AsOf           time.Time
	OpeningBalance decimal.Decimal
	DebitMonth     decimal.Decimal
	CreditMonth    decimal.Decimal
	DebitYTD       decimal.Decimal
	CreditYTD      decimal.Decimal
	EndingBalance  decimal.Decimal
}

// NetYTD returns EndingBalance − OpeningBalance: the signed change since the
// start of the year.
func (s LedgerStats) NetYTD() decimal.Decimal {
	return s.EndingBalance.Sub(s.OpeningBalance)
}

// dateKey compares calendar dates regardless of time of day and location.
type dateKey int

func keyOf(t time.Time) dateKey {
	return dateKey(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// Signed returns a line's contribution to the balance of an account of the
// given type: debit − credit for debit-normal types, credit − debit otherwise.
func Signed(typ model.AccountType, l model.Line) decimal.Decimal {
	if typ.DebitNormal() {
		return l.Debit.Sub(l.Credit)
	}
	return l.Credit.Sub(l.Debit)
}

// AccountStats computes LedgerStats for one account. Unknown accounts yield
// zero stats.
func AccountStats(accountID int, j *Journal, chart Chart, asOf time.Time) LedgerStats {
	if _, ok := chart.Get(accountID); !ok {
		return zeroStats(asOf)
	}
	return compute(j, chart, asOf, j.cutoverYear(keyOf(asOf)),
		func(model.Transaction) bool { return true },
		func(l model.Line, _ model.Account) bool { return l.AccountID == accountID })
}

// ContactStats computes LedgerStats for a contact over the lines its
// transactions post to subledger accounts (receivables, payables). Each
// line's sign follows the polarity of the account it touches.
//
// Carry-forward entries post account totals without a contact, so a contact's
// opening balance always sums its own history from the first transaction.
func ContactStats(contactID string, j *Journal, chart Chart, asOf time.Time) LedgerStats {
	if contactID == "" {
		return zeroStats(asOf)
	}
	return compute(j, chart, asOf, 0,
		func(t model.Transaction) bool { return t.ContactID == contactID },
		func(_ model.Line, a model.Account) bool { return a.Subledger })
}

func zeroStats(asOf time.Time) LedgerStats {
	return LedgerStats{
		AsOf:           asOf,
		OpeningBalance: decimal.Zero,
		DebitMonth:     decimal.Zero,
		CreditMonth:    decimal.Zero,
		DebitYTD:       decimal.Zero,
		CreditYTD:      decimal.Zero,
		EndingBalance:  decimal.Zero,
	}
}

// compute folds the journal up to asOf. Transactions dated before the cutover
// year are skipped; a zero cutover keeps the whole history.
func compute(j *Journal, chart Chart, asOf time.Time, cutover int, txnFilter func(model.Transaction) bool, lineFilter func(model.Line, model.Account) bool) LedgerStats {
	stats := zeroStats(asOf)
	limit := keyOf(asOf)
	year, month := asOf.Year(), asOf.Month()

	ytd := decimal.Zero
	for _, t := range j.txns {
		if keyOf(t.Date) > limit || !txnFilter(t) {
			continue
		}
		ty := t.Date.Year()
		if ty < cutover {
			continue
		}
		opening := ty < year || j.inOpeningBucket(t)
		sameMonth := ty == year && t.Date.Month() == month

		for _, l := range t.Lines {
			acct, ok := chart.Get(l.AccountID)
			if !ok || !lineFilter(l, acct) {
				continue
			}
			signed := Signed(acct.Type, l)
			if opening {
				stats.OpeningBalance = stats.OpeningBalance.Add(signed)
				continue
			}
			ytd = ytd.Add(signed)
			stats.DebitYTD = stats.DebitYTD.Add(l.Debit)
			stats.CreditYTD = stats.CreditYTD.Add(l.Credit)
			if sameMonth {
				stats.DebitMonth = stats.DebitMonth.Add(l.Debit)
				stats.CreditMonth = stats.CreditMonth.Add(l.Credit)
			}
		}
	}

	stats.EndingBalance = stats.OpeningBalance.Add(ytd)
	return stats
}

// Window returns the signed change of an account over [from, to], counting
// only transactions outside the opening-balance bucket.
func Window(accountID int, j *Journal, chart Chart, from, to time.Time) decimal.Decimal {
	acct, ok := chart.Get(accountID)
	if !ok {
		return decimal.Zero
	}
	lo, hi := keyOf(from), keyOf(to)
	sum := decimal.Zero
	for _, t := range j.txns {
		k := keyOf(t.Date)
		if k < lo || k > hi || j.inOpeningBucket(t) {
			continue
		}
		for _, l := range t.Lines {
			if l.AccountID == accountID {
				sum = sum.Add(Signed(acct.Type, l))
			}
		}
	}
	return sum
}

// AccountBalance pairs an account with its stats.
type AccountBalance struct {
	Account model.Account
	Stats   LedgerStats
}

// TrialBalance returns stats for every account of the chart, in chart order.
func TrialBalance(j *Journal, chart Chart, asOf time.Time) []AccountBalance {
	accts := chart.All()
	out := make([]AccountBalance, 0, len(accts))
	for _, a := range accts {
		out = append(out, AccountBalance{Account: a, Stats: AccountStats(a.ID, j, chart, asOf)})
	}
	return out
}
