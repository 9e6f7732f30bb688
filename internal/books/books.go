// Package books is the host around the bookkeeping engines. It owns the chart
// of accounts and the journal store of one ledger directory, serializes every
// change, and guards against closing a year twice or reversing a transaction
// twice. Each change is logged, written to the audit trail and, when enabled,
// committed to git.
package books

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/accounts"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/auditlog"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/closing"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/config"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/gitops"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/journal"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/statement"
)

var (
	// ErrAlreadyClosed is returned when the following year already has an
	// opening entry.
	ErrAlreadyClosed = errors.New("year already closed")
	// ErrAlreadyReversed is returned when a transaction has been reversed before.
	ErrAlreadyReversed = errors.New("transaction already reversed")
	// ErrNotClosed is returned when cancelling a closing that does not exist.
	ErrNotClosed = errors.New("year not closed")
)

// DocumentTracker recomputes the paid/open status of a source document after
// postings against it change.
type DocumentTracker interface {
	Recompute(documentID string) error
}

// Option configures Books.
type Option func(*Books)

// WithDocumentTracker notifies t after reversals of transactions that carry a
// document ID.
func WithDocumentTracker(t DocumentTracker) Option {
	return func(b *Books) { b.tracker = t }
}

// WithClock replaces time.Now for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Books) { b.now = now }
}

// Books is one ledger directory.
type Books struct {
	root    string
	cfg     *config.Config
	log     *zap.Logger
	chart   *accounts.Service
	store   *journal.Store
	tracker DocumentTracker
	now     func() time.Time
	link    func(originalID, reversalID string) error

	mu   sync.RWMutex
	runs map[int]*closing.Run
}

// Open loads the chart of accounts at root and attaches the journal store.
func Open(root string, cfg *config.Config, log *zap.Logger, opts ...Option) (*Books, error) {
	chart, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("opening books at %s: %w", root, err)
	}
	b := &Books{
		root:  root,
		cfg:   cfg,
		log:   log.Named("books"),
		chart: chart,
		store: journal.NewStore(root, chart, cfg.Ledger.BalanceTolerance),
		now:   time.Now,
		runs:  make(map[int]*closing.Run),
	}
	b.link = b.store.MarkReversed
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Chart returns the chart of accounts.
func (b *Books) Chart() *accounts.Service { return b.chart }

// Account resolves an account by its code.
func (b *Books) Account(code string) (model.Account, error) {
	acct, ok := b.chart.ByCode(code)
	if !ok {
		return model.Account{}, &accounts.MissingAccountError{Code: code, Purpose: "requested"}
	}
	return acct, nil
}

// Journal reads the whole journal.
func (b *Books) Journal() (*ledger.Journal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot()
}

func (b *Books) snapshot() (*ledger.Journal, error) {
	txns, err := b.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return ledger.NewJournal(txns), nil
}

// Post books a two-line transaction.
func (b *Books) Post(params journal.PostParams) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	txn, err := b.store.Post(params)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("posting: %w", err)
	}
	b.posted(txn, auditlog.ActionPost, fmt.Sprintf("%s %s", params.Amount.StringFixed(2), txn.Description))
	return txn, nil
}

// PostTransaction books a fully constructed transaction with any number of lines.
func (b *Books) PostTransaction(txn model.Transaction) (model.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if txn.Kind == model.KindUntagged {
		txn.Kind = model.KindStandard
	}
	booked, err := b.store.Append(txn)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("posting: %w", err)
	}
	debit, _ := booked.Totals()
	b.posted(booked, auditlog.ActionPost, fmt.Sprintf("%s %s", debit.StringFixed(2), booked.Description))
	return booked, nil
}

// AccountStats returns the stats of an account as of asOf.
func (b *Books) AccountStats(accountID int, asOf time.Time) (ledger.LedgerStats, error) {
	j, err := b.Journal()
	if err != nil {
		return ledger.LedgerStats{}, err
	}
	if !b.chart.Exists(accountID) {
		return ledger.LedgerStats{}, fmt.Errorf("account %d not found", accountID)
	}
	return ledger.AccountStats(accountID, j, b.chart, asOf), nil
}

// ContactStats returns the open-item stats of a contact as of asOf.
func (b *Books) ContactStats(contactID string, asOf time.Time) (ledger.LedgerStats, error) {
	j, err := b.Journal()
	if err != nil {
		return ledger.LedgerStats{}, err
	}
	return ledger.ContactStats(contactID, j, b.chart, asOf), nil
}

// TrialBalance returns the stats of every account as of asOf.
func (b *Books) TrialBalance(asOf time.Time) ([]ledger.AccountBalance, error) {
	j, err := b.Journal()
	if err != nil {
		return nil, err
	}
	return ledger.TrialBalance(j, b.chart, asOf), nil
}

// Statements computes P&L and balance sheet for year up to asOf (zero means
// year end). An unbalanced balance sheet is logged, not returned as an error.
func (b *Books) Statements(year int, asOf time.Time) (statement.YearData, error) {
	j, err := b.Journal()
	if err != nil {
		return statement.YearData{}, err
	}
	y := statement.BuildYear(j, b.chart, year, asOf, statement.WithClearingAccount(b.cfg.Ledger.ClearingAccount))
	if !y.Balanced(b.SheetTolerance()) {
		b.log.Warn("balance sheet does not balance",
			zap.Int("year", year),
			zap.String("as_of", y.Window.AsOf.Format(time.DateOnly)),
			zap.String("discrepancy", y.Discrepancy().StringFixed(2)),
		)
	}
	return y, nil
}

// SheetTolerance is the largest balance sheet discrepancy still reported as
// balanced.
func (b *Books) SheetTolerance() decimal.Decimal {
	if b.cfg.Ledger.SheetTolerance.IsZero() {
		return ledger.SheetTolerance
	}
	return b.cfg.Ledger.SheetTolerance
}

// posted logs, audits and commits a transaction that is already in the journal.
func (b *Books) posted(txn model.Transaction, action auditlog.Action, details string) {
	b.log.Info("transaction booked",
		zap.String("txn_id", txn.ID),
		zap.String("kind", string(txn.Kind)),
		zap.String("action", string(action)),
		zap.Int("year", txn.Date.Year()),
	)
	if action == auditlog.ActionPost || action == auditlog.ActionReverse {
		b.warnIfClosed(txn)
	}
	b.record(action, txn.ID, details)
}

// warnIfClosed warns when txn lands in a year that has already been carried
// forward. The carry-forward entry does not include it, so later years miss
// it until the closing is cancelled and booked again.
func (b *Books) warnIfClosed(txn model.Transaction) {
	j, err := b.snapshot()
	if err != nil {
		return
	}
	year := txn.Date.Year()
	opening, ok := closing.FindOpeningEntry(j, year+1)
	if !ok {
		return
	}
	b.log.Warn("posting into closed year",
		zap.String("txn_id", txn.ID),
		zap.Int("year", year),
		zap.String("opening_id", opening.ID),
		zap.String("hint", fmt.Sprintf("run close cancel %d and close book %d", year, year)),
	)
}

// record commits the working tree when configured and appends an audit entry
// carrying the commit hash.
func (b *Books) record(action auditlog.Action, txnID, details string) {
	hash := b.commit(fmt.Sprintf("%s: %s %s", action, txnID, details))
	entry := auditlog.Entry{
		Timestamp:  b.now(),
		Actor:      b.cfg.Git.AuthorName,
		Action:     action,
		Details:    details,
		TxnID:      txnID,
		CommitHash: hash,
	}
	if err := auditlog.Append(b.root, entry); err != nil {
		b.log.Warn("writing audit log failed", zap.Error(err))
	}
}

// History returns the audit trail, restricted to entries concerning txnID
// when it is not empty.
func (b *Books) History(txnID string) ([]auditlog.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries, err := auditlog.Read(b.root)
	if err != nil {
		return nil, err
	}
	if txnID == "" {
		return entries, nil
	}
	return auditlog.ForTransaction(entries, txnID), nil
}

func (b *Books) commit(message string) string {
	if !b.cfg.Git.AutoCommit || !gitops.IsRepo(b.root) {
		return ""
	}
	author := gitops.Author{Name: b.cfg.Git.AuthorName, Email: b.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(b.root, message, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return ""
	}
	if err != nil {
		b.log.Warn("git commit failed", zap.Error(err))
		return ""
	}
	return hash
}

// Reclassify changes the type of the account with the given code. Accounts
// with postings keep their type.
func (b *Books) Reclassify(code string, typ model.AccountType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.chart.ByCode(code)
	if !ok {
		return &accounts.MissingAccountError{Code: code, Purpose: "reclassified"}
	}
	from := acct.Type
	if err := b.chart.Reclassify(acct.ID, typ, b.store); err != nil {
		return err
	}
	if from == typ {
		return nil
	}
	if err := b.chart.Save(b.root); err != nil {
		return err
	}
	b.log.Info("account reclassified", zap.String("code", code), zap.String("from", string(from)), zap.String("to", string(typ)))
	b.record(auditlog.ActionReclassify, "", fmt.Sprintf("account %s %s -> %s", code, from, typ))
	return nil
}
