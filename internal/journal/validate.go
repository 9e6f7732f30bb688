package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/id"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// Invariants checked by ValidateTransaction and ValidateMonth.
const (
	InvariantBalanced   = 1 // Σdebit == Σcredit within tolerance
	InvariantOneSide    = 2 // at most one non-zero side per line, no negative amounts outside reversals
	InvariantAccount    = 3 // every line references a known account
	InvariantMonth      = 4 // stored transactions sit in the file of their month
	InvariantSequence   = 5 // IDs unique and contiguous 1..N within a month
	InvariantDecimals   = 6 // at most two decimal places
	InvariantLineCount  = 7 // at least two lines
	InvariantKind       = 8 // known kind tag
	InvariantNonZeroSum = 9 // a transaction must move money
)

// DefaultTolerance is the largest Σdebit − Σcredit difference accepted as balanced.
var DefaultTolerance = decimal.New(1, -2)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// ValidationErrors is returned by the store when a transaction is rejected.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether any error violates the given invariant.
func (errs ValidationErrors) Has(invariant int) bool {
	for _, e := range errs {
		if e.Invariant == invariant {
			return true
		}
	}
	return false
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id int) bool
}

var hundred = decimal.NewFromInt(100)

func finerThanCents(d decimal.Decimal) bool {
	return !d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

// ValidateTransaction checks a transaction before it enters the journal.
func ValidateTransaction(txn model.Transaction, accounts AccountChecker, tolerance decimal.Decimal) ValidationErrors {
	var errs ValidationErrors
	ref := txn.ID
	if ref == "" {
		ref = txn.Date.Format(dateFormat)
	}

	if !txn.Kind.Valid() {
		errs = append(errs, ValidationError{InvariantKind, ref, fmt.Sprintf("unknown kind %q", txn.Kind)})
	}

	if len(txn.Lines) < 2 {
		errs = append(errs, ValidationError{InvariantLineCount, ref, fmt.Sprintf("transaction needs at least two lines, has %d", len(txn.Lines))})
	}

	debit, credit := txn.Totals()
	if debit.Sub(credit).Abs().GreaterThan(tolerance) {
		errs = append(errs, ValidationError{
			Invariant:   InvariantBalanced,
			EntryID:     ref,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}
	if len(txn.Lines) > 0 && debit.IsZero() && credit.IsZero() {
		errs = append(errs, ValidationError{InvariantNonZeroSum, ref, "all lines are zero"})
	}

	// Generalstorno lines negate the original amounts in place.
	negated := txn.Kind == model.KindReversal

	for n, line := range txn.Lines {
		lineRef := ref + "/" + fmt.Sprint(n+1)

		if !line.Debit.IsZero() && !line.Credit.IsZero() {
			errs = append(errs, ValidationError{InvariantOneSide, lineRef, "line has both debit and credit"})
		}
		if !negated && (line.Debit.IsNegative() || line.Credit.IsNegative()) {
			errs = append(errs, ValidationError{InvariantOneSide, lineRef, "negative amount outside a reversal"})
		}

		if !accounts.Exists(line.AccountID) {
			errs = append(errs, ValidationError{InvariantAccount, lineRef, fmt.Sprintf("unknown account %d", line.AccountID)})
		}

		if finerThanCents(line.Debit) {
			errs = append(errs, ValidationError{InvariantDecimals, lineRef, fmt.Sprintf("debit %s has more than 2 decimal places", line.Debit)})
		}
		if finerThanCents(line.Credit) {
			errs = append(errs, ValidationError{InvariantDecimals, lineRef, fmt.Sprintf("credit %s has more than 2 decimal places", line.Credit)})
		}
	}

	return errs
}

// ValidateMonth checks the stored transactions of one month file.
func ValidateMonth(txns []model.Transaction, year, month int) ValidationErrors {
	var errs ValidationErrors

	seqSeen := make(map[int]bool)
	for _, txn := range txns {
		if txn.Date.Year() != year || int(txn.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   InvariantMonth,
				EntryID:     txn.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", txn.Date.Format(dateFormat), year, month),
			})
		}

		y, m, seq, err := id.ParseTransactionID(txn.ID)
		if err != nil {
			errs = append(errs, ValidationError{InvariantSequence, txn.ID, fmt.Sprintf("invalid transaction ID: %v", err)})
			continue
		}
		if y != year || m != month {
			errs = append(errs, ValidationError{InvariantMonth, txn.ID, fmt.Sprintf("ID not in %04d-%02d", year, month)})
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{InvariantSequence, txn.ID, fmt.Sprintf("duplicate sequence %d", seq)})
		}
		seqSeen[seq] = true
	}

	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Invariant:   InvariantSequence,
				EntryID:     fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
