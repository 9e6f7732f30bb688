package books

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/auditlog"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/closing"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

func (b *Books) run(year int) *closing.Run {
	r, ok := b.runs[year]
	if !ok {
		r = closing.NewRun(year, b.cfg.Ledger.ClearingAccount)
		b.runs[year] = r
	}
	return r
}

// checkNotClosed fails with ErrAlreadyClosed when year+1 has an opening entry.
func checkNotClosed(j *ledger.Journal, year int) error {
	if opening, ok := closing.FindOpeningEntry(j, year+1); ok {
		return fmt.Errorf("closing %d: opening entry %s exists: %w", year, opening.ID, ErrAlreadyClosed)
	}
	return nil
}

// PreviewClosing builds the carry-forward entry for year without booking it.
func (b *Books) PreviewClosing(year int) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	j, err := b.snapshot()
	if err != nil {
		return model.Transaction{}, err
	}
	if err := checkNotClosed(j, year); err != nil {
		return model.Transaction{}, err
	}
	entry, err := b.run(year).Preview(j, b.chart)
	if err != nil {
		return model.Transaction{}, err
	}
	b.log.Debug("closing previewed", zap.Int("year", year), zap.Int("lines", len(entry.Lines)))
	return entry, nil
}

// BookClosing builds the carry-forward entry for year from the current
// journal and appends it, dated January 1 of the following year.
func (b *Books) BookClosing(year int) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	j, err := b.snapshot()
	if err != nil {
		return model.Transaction{}, err
	}
	if err := checkNotClosed(j, year); err != nil {
		return model.Transaction{}, err
	}

	r := b.run(year)
	if _, err := r.Preview(j, b.chart); err != nil {
		return model.Transaction{}, err
	}
	booked, err := r.Book(b.store)
	if err != nil {
		return model.Transaction{}, err
	}
	b.posted(booked, auditlog.ActionClose, fmt.Sprintf("closing %d, %d lines", year, len(booked.Lines)))
	return booked, nil
}

// CancelClosing books the correction that cancels the opening entry carried
// forward from year, so the year can be closed again.
func (b *Books) CancelClosing(year int) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	j, err := b.snapshot()
	if err != nil {
		return model.Transaction{}, err
	}
	opening, ok := closing.FindOpeningEntry(j, year+1)
	if !ok {
		return model.Transaction{}, fmt.Errorf("cancelling closing %d: %w", year, ErrNotClosed)
	}

	booked, err := b.store.Append(closing.BuildClosingReversal(opening))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("cancelling closing %d: %w", year, err)
	}
	if err := b.store.MarkReversed(opening.ID, booked.ID); err != nil {
		b.log.Warn("linking cancelled opening entry failed", zap.String("txn_id", opening.ID), zap.Error(err))
	}
	delete(b.runs, year)

	b.posted(booked, auditlog.ActionCancelClosing, fmt.Sprintf("cancels %s (closing %d)", opening.ID, year))
	return booked, nil
}
