// Package ledger derives balances from the journal.
//
// Every function here is a pure read over the transactions and chart passed
// in. Callers recompute after any change to either; nothing is cached across
// calls except through an explicit Memo.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// Tolerances for "is zero" and "are equal" comparisons of amounts.
var (
	BalanceTolerance = decimal.New(1, -2)
	SheetTolerance   = decimal.New(5, -2)
)

// NearlyZero reports whether |d| <= tol.
func NearlyZero(d, tol decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(tol)
}

// Chart is the read side of the chart of accounts.
type Chart interface {
	Get(id int) (model.Account, bool)
	All() []model.Account
}

// Journal is an indexed, read-only view over a slice of transactions.
type Journal struct {
	txns      []model.Transaction
	byID      map[string]int
	cancelled map[string]bool
}

// NewJournal indexes txns. The slice is not copied and must not be mutated
// while the Journal is in use.
func NewJournal(txns []model.Transaction) *Journal {
	j := &Journal{
		txns:      txns,
		byID:      make(map[string]int, len(txns)),
		cancelled: make(map[string]bool),
	}
	for i, t := range txns {
		if t.ID != "" {
			j.byID[t.ID] = i
		}
	}
	for _, t := range txns {
		if t.ReversesID != "" {
			j.cancelled[t.ReversesID] = true
		}
	}
	return j
}

// Transactions returns the underlying transactions.
func (j *Journal) Transactions() []model.Transaction {
	return j.txns
}

// Find returns the transaction with the given ID.
func (j *Journal) Find(txnID string) (model.Transaction, bool) {
	i, ok := j.byID[txnID]
	if !ok {
		return model.Transaction{}, false
	}
	return j.txns[i], true
}

// IsCancelled reports whether some transaction in the journal reverses txnID.
func (j *Journal) IsCancelled(txnID string) bool {
	return j.cancelled[txnID]
}

// FirstYear returns the year of the earliest transaction, or 0 for an empty journal.
func (j *Journal) FirstYear() int {
	first := 0
	for _, t := range j.txns {
		if y := t.Date.Year(); first == 0 || y < first {
			first = y
		}
	}
	return first
}

// carryForwardKeywords mark untagged opening-balance transactions in their
// description. Matched case-insensitively. A bare "vortrag" is not among them:
// it also means a talk or lecture.
var carryForwardKeywords = []string{
	"eröffnungsbilanz",
	"eröffnungsbuchung",
	"saldovortrag",
	"saldenvortrag",
	"gewinnvortrag",
	"verlustvortrag",
	"opening balance",
	"carry forward",
	"carry-forward",
}

// IsOpeningBalance reports whether t is an opening-balance transaction. The
// kind tag decides for tagged transactions; only untagged legacy data falls
// back to the reference and description heuristic.
func IsOpeningBalance(t model.Transaction) bool {
	switch t.Kind {
	case model.KindOpeningBalance:
		return true
	case model.KindUntagged:
		return looksLikeOpeningBalance(t)
	default:
		return false
	}
}

// IsCarryForward reports whether t is a carry-forward entry booked by a
// closing: an opening-balance transaction by kind tag. Untagged transactions
// never qualify, whatever their reference or description says.
func IsCarryForward(t model.Transaction) bool {
	return t.Kind == model.KindOpeningBalance
}

func looksLikeOpeningBalance(t model.Transaction) bool {
	if strings.HasPrefix(t.Reference, "EB") {
		return true
	}
	desc := strings.ToLower(t.Description)
	for _, kw := range carryForwardKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// inOpeningBucket reports whether t counts toward the opening balance of its
// own year. A reversal or cancellation of an opening-balance transaction sits
// in the same bucket as what it reverses.
func (j *Journal) inOpeningBucket(t model.Transaction) bool {
	if IsOpeningBalance(t) {
		return true
	}
	if t.ReversesID == "" {
		return false
	}
	if t.Kind != model.KindCorrection && t.Kind != model.KindReversal {
		return false
	}
	orig, ok := j.Find(t.ReversesID)
	return ok && IsOpeningBalance(orig)
}

// cutoverYear returns the latest year <= asOf.Year() holding an uncancelled
// carry-forward entry dated on or before asOf, or 0 if there is none. Such an
// entry replaces the account history before its year.
func (j *Journal) cutoverYear(asOf dateKey) int {
	c := 0
	for _, t := range j.txns {
		if !IsCarryForward(t) || j.IsCancelled(t.ID) {
			continue
		}
		if keyOf(t.Date) > asOf {
			continue
		}
		if y := t.Date.Year(); y > c {
			c = y
		}
	}
	return c
}
