// Package reversal builds generalstorno transactions: the original lines on
// the same accounts and sides with their amounts negated.
//
// Negating in place keeps gross debit and credit turnover meaningful. The
// builder is a pure transform and does not check whether the original has
// already been reversed; that is up to the caller.
package reversal

import (
	"time"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// ReferencePrefix marks the reference of a reversal.
const ReferencePrefix = "ST-"

// Build returns the reversal of original, dated on the original's date.
func Build(original model.Transaction, reason string) model.Transaction {
	return BuildOn(original, reason, original.Date)
}

// BuildOn returns the reversal of original dated on date.
func BuildOn(original model.Transaction, reason string, date time.Time) model.Transaction {
	lines := make([]model.Line, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = model.Line{
			AccountID:  l.AccountID,
			Debit:      l.Debit.Neg(),
			Credit:     l.Credit.Neg(),
			CostCenter: l.CostCenter,
			Project:    l.Project,
		}
	}
	return model.Transaction{
		Date:        date,
		Kind:        model.KindReversal,
		Description: "Storno: " + original.Description,
		Reference:   ReferencePrefix + original.Reference,
		ContactID:   original.ContactID,
		DocumentID:  original.DocumentID,
		ReversesID:  original.ID,
		Reason:      reason,
		Lines:       lines,
	}
}
