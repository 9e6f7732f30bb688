package books

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/auditlog"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/reversal"
)

// Reverse books the generalstorno of txnID on the original's date.
func (b *Books) Reverse(txnID, reason string) (model.Transaction, error) {
	return b.reverse(txnID, reason, time.Time{})
}

// ReverseOn books the generalstorno of txnID dated on date.
func (b *Books) ReverseOn(txnID, reason string, date time.Time) (model.Transaction, error) {
	return b.reverse(txnID, reason, date)
}

func (b *Books) reverse(txnID, reason string, date time.Time) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	original, err := b.store.Find(txnID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("reversing: %w", err)
	}
	if original.IsReversed() {
		return model.Transaction{}, fmt.Errorf("reversing %s: reversed by %s: %w", txnID, original.ReversedBy, ErrAlreadyReversed)
	}
	// A crash between append and linkage leaves the reversal without the
	// back-link on the original.
	j, err := b.snapshot()
	if err != nil {
		return model.Transaction{}, err
	}
	if j.IsCancelled(txnID) {
		return model.Transaction{}, fmt.Errorf("reversing %s: %w", txnID, ErrAlreadyReversed)
	}

	rev := reversal.Build(original, reason)
	if !date.IsZero() {
		rev = reversal.BuildOn(original, reason, date)
	}
	booked, err := b.store.Append(rev)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("reversing %s: %w", txnID, err)
	}
	details := fmt.Sprintf("reverses %s: %s", original.ID, reason)
	if err := b.link(original.ID, booked.ID); err != nil {
		// The reversal is in the journal; it still gets its log, audit entry and commit.
		b.log.Error("linking reversal failed",
			zap.String("txn_id", booked.ID),
			zap.String("reverses_id", original.ID),
			zap.Error(err),
		)
		b.posted(booked, auditlog.ActionReverse, details)
		return booked, fmt.Errorf("linking reversal %s to %s: %w", booked.ID, original.ID, err)
	}

	if b.tracker != nil && original.DocumentID != "" {
		if err := b.tracker.Recompute(original.DocumentID); err != nil {
			b.log.Warn("document status recompute failed", zap.String("document_id", original.DocumentID), zap.Error(err))
		}
	}

	b.posted(booked, auditlog.ActionReverse, details)
	return booked, nil
}
