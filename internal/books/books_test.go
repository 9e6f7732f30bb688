package books

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/accounts"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/auditlog"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/config"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/gitops"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/journal"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/statement"
)

const (
	capital     = 800
	bank        = 1200
	receivables = 1400
	vat         = 1776
	revenue     = 8400
)

var clock = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	root  string
	cfg   *config.Config
	books *Books
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, accounts.NewService(accounts.DefaultChart("gmbh")).Save(root))

	cfg := config.Default("Test GmbH", "gmbh")
	cfg.Git.AutoCommit = false
	for _, m := range mutate {
		m(cfg)
	}
	return openFixture(t, root, cfg)
}

func openFixture(t *testing.T, root string, cfg *config.Config, opts ...Option) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	b, err := Open(root, cfg, zap.New(core), opts...)
	require.NoError(t, err)
	return &fixture{root: root, cfg: cfg, books: b, logs: logs}
}

func (f *fixture) postSale(t *testing.T, d time.Time, gross, net, tax string) model.Transaction {
	t.Helper()
	txn, err := f.books.PostTransaction(model.Transaction{
		Date:        d,
		Description: "Rechnung",
		Reference:   "RE-1",
		DocumentID:  "INV-1",
		Lines: []model.Line{
			{AccountID: bank, Debit: dec(gross)},
			{AccountID: revenue, Credit: dec(net)},
			{AccountID: vat, Credit: dec(tax)},
		},
	})
	require.NoError(t, err)
	return txn
}

type recordingTracker struct {
	docs []string
	err  error
}

func (r *recordingTracker) Recompute(documentID string) error {
	r.docs = append(r.docs, documentID)
	return r.err
}

func TestOpen_MissingChart(t *testing.T) {
	_, err := Open(t.TempDir(), config.Default("x", "gmbh"), zap.NewNop())
	assert.Error(t, err)
}

func TestPostTransaction(t *testing.T) {
	f := newFixture(t)
	txn := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	assert.Equal(t, "2024-03-001", txn.ID)
	assert.Equal(t, model.KindStandard, txn.Kind)

	stats, err := f.books.AccountStats(bank, date(2024, 3, 31))
	require.NoError(t, err)
	assert.True(t, stats.OpeningBalance.IsZero())
	assert.True(t, stats.DebitYTD.Equal(dec("119.00")))
	assert.True(t, stats.CreditYTD.IsZero())
	assert.True(t, stats.EndingBalance.Equal(dec("119.00")))

	booked := f.logs.FilterMessage("transaction booked").All()
	require.Len(t, booked, 1)
	assert.Equal(t, "2024-03-001", booked[0].ContextMap()["txn_id"])
	assert.Equal(t, "books", booked[0].LoggerName)

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.ActionPost, entries[0].Action)
	assert.Equal(t, "2024-03-001", entries[0].TxnID)
	assert.True(t, clock.Equal(entries[0].Timestamp))
	assert.Empty(t, entries[0].CommitHash)
}

func TestPostTransaction_Unbalanced(t *testing.T) {
	f := newFixture(t)
	_, err := f.books.PostTransaction(model.Transaction{
		Date: date(2024, 3, 10),
		Lines: []model.Line{
			{AccountID: bank, Debit: dec("119.00")},
			{AccountID: revenue, Credit: dec("100.00")},
		},
	})
	var verrs journal.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(journal.InvariantBalanced))

	j, err := f.books.Journal()
	require.NoError(t, err)
	assert.Empty(t, j.Transactions(), "nothing persisted")
	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPost(t *testing.T) {
	f := newFixture(t)
	txn, err := f.books.Post(journal.PostParams{
		Date:          date(2024, 1, 2),
		Description:   "Stammkapital",
		DebitAccount:  bank,
		CreditAccount: capital,
		Amount:        dec("25000.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-001", txn.ID)

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "25000.00 Stammkapital", entries[0].Details)
}

func TestAccountStats_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.books.AccountStats(4711, date(2024, 1, 1))
	assert.Error(t, err)
}

func TestContactStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.books.PostTransaction(model.Transaction{
		Date:      date(2024, 5, 2),
		ContactID: "K-1",
		Lines: []model.Line{
			{AccountID: receivables, Debit: dec("119.00")},
			{AccountID: revenue, Credit: dec("100.00")},
			{AccountID: vat, Credit: dec("19.00")},
		},
	})
	require.NoError(t, err)

	stats, err := f.books.ContactStats("K-1", date(2024, 12, 31))
	require.NoError(t, err)
	assert.True(t, stats.EndingBalance.Equal(dec("119.00")), "got %s", stats.EndingBalance)

	stats, err = f.books.ContactStats("K-2", date(2024, 12, 31))
	require.NoError(t, err)
	assert.True(t, stats.EndingBalance.IsZero())
}

func TestTrialBalance(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	rows, err := f.books.TrialBalance(date(2024, 12, 31))
	require.NoError(t, err)
	assert.Len(t, rows, len(f.books.Chart().All()))

	total := decimal.Zero
	for _, r := range rows {
		if r.Account.Type.DebitNormal() {
			total = total.Add(r.Stats.EndingBalance)
		} else {
			total = total.Sub(r.Stats.EndingBalance)
		}
	}
	assert.True(t, total.IsZero(), "debits equal credits")
}

func TestReverse(t *testing.T) {
	tracker := &recordingTracker{}
	f := newFixture(t)
	f = openFixture(t, f.root, f.cfg, WithDocumentTracker(tracker))
	orig := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	rev, err := f.books.Reverse(orig.ID, "Doppelt erfasst")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-002", rev.ID)
	assert.Equal(t, model.KindReversal, rev.Kind)
	assert.Equal(t, orig.ID, rev.ReversesID)
	assert.True(t, rev.Lines[0].Debit.Equal(dec("-119.00")))

	stats, err := f.books.AccountStats(bank, date(2024, 4, 1))
	require.NoError(t, err)
	assert.True(t, stats.EndingBalance.IsZero())

	j, err := f.books.Journal()
	require.NoError(t, err)
	stored, ok := j.Find(orig.ID)
	require.True(t, ok)
	assert.Equal(t, rev.ID, stored.ReversedBy)

	assert.Equal(t, []string{"INV-1"}, tracker.docs)

	_, err = f.books.Reverse(orig.ID, "noch einmal")
	assert.ErrorIs(t, err, ErrAlreadyReversed)

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, auditlog.ActionReverse, entries[1].Action)
	assert.Contains(t, entries[1].Details, "Doppelt erfasst")
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	first := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")
	f.postSale(t, date(2024, 3, 11), "238.00", "200.00", "38.00")
	_, err := f.books.Reverse(first.ID, "Doppelt erfasst")
	require.NoError(t, err)

	all, err := f.books.History("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := f.books.History(first.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, auditlog.ActionPost, got[0].Action)
	assert.Equal(t, auditlog.ActionReverse, got[1].Action)
	assert.True(t, clock.Equal(got[1].Timestamp))
}

func TestReverseOn(t *testing.T) {
	f := newFixture(t)
	orig := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	rev, err := f.books.ReverseOn(orig.ID, "late", date(2024, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, "2024-04-001", rev.ID)

	stats, err := f.books.AccountStats(bank, date(2024, 3, 31))
	require.NoError(t, err)
	assert.True(t, stats.EndingBalance.Equal(dec("119.00")), "reversal lands in april")
}

func TestReverse_TrackerFailureIsLogged(t *testing.T) {
	tracker := &recordingTracker{err: errors.New("offline")}
	f := newFixture(t)
	f = openFixture(t, f.root, f.cfg, WithDocumentTracker(tracker))
	orig := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	_, err := f.books.Reverse(orig.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.logs.FilterMessage("document status recompute failed").Len())
}

func TestReverse_LinkFailureIsStillRecorded(t *testing.T) {
	f := newFixture(t)
	orig := f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")
	f.books.link = func(string, string) error { return errors.New("disk full") }

	rev, err := f.books.Reverse(orig.ID, "Doppelt erfasst")
	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, "2024-03-002", rev.ID)

	assert.Equal(t, 1, f.logs.FilterMessage("linking reversal failed").Len())
	assert.Equal(t, 2, f.logs.FilterMessage("transaction booked").Len())

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, auditlog.ActionReverse, entries[1].Action)
	assert.Equal(t, rev.ID, entries[1].TxnID)

	// The reversal already cancels the original, so a retry is refused.
	_, err = f.books.Reverse(orig.ID, "noch einmal")
	assert.ErrorIs(t, err, ErrAlreadyReversed)
}

func TestReverse_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.books.Reverse("2024-03-001", "")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestClosingLifecycle(t *testing.T) {
	f := newFixture(t)
	_, err := f.books.Post(journal.PostParams{
		Date: date(2024, 1, 2), DebitAccount: bank, CreditAccount: capital, Amount: dec("25000.00"),
	})
	require.NoError(t, err)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	preview, err := f.books.PreviewClosing(2024)
	require.NoError(t, err)
	assert.Empty(t, preview.ID)
	assert.Len(t, preview.Lines, 6)

	opening, err := f.books.BookClosing(2024)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-001", opening.ID)
	assert.Equal(t, model.KindOpeningBalance, opening.Kind)

	stats, err := f.books.AccountStats(bank, date(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, stats.OpeningBalance.Equal(dec("25119.00")))

	_, err = f.books.BookClosing(2024)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	_, err = f.books.PreviewClosing(2024)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	cancel, err := f.books.CancelClosing(2024)
	require.NoError(t, err)
	assert.Equal(t, model.KindCorrection, cancel.Kind)
	assert.Equal(t, opening.ID, cancel.ReversesID)

	// Late posting, then close again.
	f.postSale(t, date(2024, 12, 30), "238.00", "200.00", "38.00")
	reopened, err := f.books.BookClosing(2024)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-003", reopened.ID)

	stats, err = f.books.AccountStats(bank, date(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, stats.OpeningBalance.Equal(dec("25357.00")), "got %s", stats.OpeningBalance)

	_, err = f.books.CancelClosing(2030)
	assert.ErrorIs(t, err, ErrNotClosed)

	var actions []auditlog.Action
	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []auditlog.Action{
		auditlog.ActionPost, auditlog.ActionPost, auditlog.ActionClose,
		auditlog.ActionCancelClosing, auditlog.ActionPost, auditlog.ActionClose,
	}, actions)
}

func TestBookClosing_MissingClearingAccount(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Ledger.ClearingAccount = "9999" })
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	_, err := f.books.BookClosing(2024)
	var missing *accounts.MissingAccountError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "9999", missing.Code)

	j, err := f.books.Journal()
	require.NoError(t, err)
	assert.Len(t, j.Transactions(), 1, "no partial entry")
}

func TestStatements(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	y, err := f.books.Statements(2024, time.Time{})
	require.NoError(t, err)
	assert.True(t, y.NetResult.Equal(dec("100.00")))
	assert.True(t, y.Balanced(decimal.Zero))
	assert.Zero(t, f.logs.FilterMessage("balance sheet does not balance").Len())
}

func TestStatements_WarnsOnDiscrepancy(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	// Drop the revenue account from the chart behind the journal's back.
	var kept []model.Account
	for _, a := range accounts.DefaultChart("gmbh") {
		if a.ID != revenue {
			kept = append(kept, a)
		}
	}
	require.NoError(t, accounts.NewService(kept).Save(f.root))
	f = openFixture(t, f.root, f.cfg)

	y, err := f.books.Statements(2024, time.Time{})
	require.NoError(t, err)
	assert.True(t, y.Discrepancy().Equal(dec("100.00")))

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("balance sheet does not balance").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "100.00", warns[0].ContextMap()["discrepancy"])
}

func TestStatements_ConfiguredClearingAccount(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Ledger.ClearingAccount = "0890" })
	require.NoError(t, f.books.Chart().Add(model.Account{ID: 890, Code: "0890", Name: "Vortragskonto", Type: model.AccountTypeEquity}))

	_, err := f.books.Post(journal.PostParams{
		Date: date(2024, 1, 2), DebitAccount: bank, CreditAccount: capital, Amount: dec("25000.00"),
	})
	require.NoError(t, err)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")
	_, err = f.books.BookClosing(2024)
	require.NoError(t, err)

	y, err := f.books.Statements(2025, time.Time{})
	require.NoError(t, err)
	assert.True(t, y.Value(statement.CarryForward).Equal(dec("100.00")), "clearing memo %s", y.Value(statement.CarryForward))
	assert.True(t, y.Balanced(decimal.Zero), "discrepancy %s", y.Discrepancy())
	assert.Zero(t, f.logs.FilterMessage("balance sheet does not balance").Len())
}

func TestPostIntoClosedYearWarns(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")
	opening, err := f.books.BookClosing(2024)
	require.NoError(t, err)
	assert.Zero(t, f.logs.FilterMessage("posting into closed year").Len())

	late := f.postSale(t, date(2024, 12, 30), "238.00", "200.00", "38.00")
	_, err = f.books.Reverse(late.ID, "falsches Jahr")
	require.NoError(t, err)

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("posting into closed year").All()
	require.Len(t, warns, 2)
	ctx := warns[0].ContextMap()
	assert.Equal(t, late.ID, ctx["txn_id"])
	assert.Equal(t, opening.ID, ctx["opening_id"])
	assert.Equal(t, "run close cancel 2024 and close book 2024", ctx["hint"])

	// The following year is still open.
	f.postSale(t, date(2025, 2, 1), "119.00", "100.00", "19.00")
	assert.Equal(t, 2, f.logs.FilterMessage("posting into closed year").Len())
}

func TestReclassify(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	err := f.books.Reclassify("8400", model.AccountTypeExpense)
	assert.ErrorIs(t, err, accounts.ErrAccountInUse)

	require.NoError(t, f.books.Reclassify("2700", model.AccountTypeExpense))
	reloaded, err := accounts.Load(f.root)
	require.NoError(t, err)
	acct, ok := reloaded.ByCode("2700")
	require.True(t, ok)
	assert.Equal(t, model.AccountTypeExpense, acct.Type)

	var missing *accounts.MissingAccountError
	assert.ErrorAs(t, f.books.Reclassify("4711", model.AccountTypeAsset), &missing)

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, auditlog.ActionReclassify, entries[1].Action)
	assert.Empty(t, entries[1].TxnID)
}

func TestAccount(t *testing.T) {
	f := newFixture(t)
	acct, err := f.books.Account("1200")
	require.NoError(t, err)
	assert.Equal(t, bank, acct.ID)

	_, err = f.books.Account("4711")
	assert.Error(t, err)
}

func TestAutoCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	f := newFixture(t, func(c *config.Config) { c.Git.AutoCommit = true })
	require.NoError(t, gitops.Init(f.root, &bytes.Buffer{}))

	f.postSale(t, date(2024, 3, 10), "119.00", "100.00", "19.00")

	entries, err := auditlog.Read(f.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].CommitHash)
	assert.Zero(t, f.logs.FilterMessage("git commit failed").Len())
}
