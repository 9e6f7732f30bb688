package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/id"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// ErrNotFound is returned when a transaction ID is not in the journal.
var ErrNotFound = errors.New("transaction not found")

// ErrAlreadyLinked is returned when reversal linkage is set a second time.
var ErrAlreadyLinked = errors.New("reversal linkage already set")

const journalDir = "journal"

// Store persists the journal as one CSV file per month under
// <root>/journal/YYYY/MM/journal.csv. It assumes a single writer.
type Store struct {
	root      string
	accounts  AccountChecker
	tolerance decimal.Decimal
}

// NewStore creates a journal Store. A zero tolerance selects DefaultTolerance.
func NewStore(root string, accounts AccountChecker, tolerance decimal.Decimal) *Store {
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}
	return &Store{root: root, accounts: accounts, tolerance: tolerance}
}

// PostParams holds parameters for a simple two-line transaction.
type PostParams struct {
	Date          time.Time
	Kind          model.TransactionKind
	Description   string
	DebitAccount  int
	CreditAccount int
	Amount        decimal.Decimal
	ContactID     string
	Reference     string
	DocumentID    string
}

// Post books a balanced two-line transaction (one debit, one credit).
func (s *Store) Post(params PostParams) (model.Transaction, error) {
	kind := params.Kind
	if kind == model.KindUntagged {
		kind = model.KindStandard
	}
	return s.Append(model.Transaction{
		Date:        params.Date,
		Kind:        kind,
		Description: params.Description,
		Reference:   params.Reference,
		ContactID:   params.ContactID,
		DocumentID:  params.DocumentID,
		Lines: []model.Line{
			{AccountID: params.DebitAccount, Debit: params.Amount},
			{AccountID: params.CreditAccount, Credit: params.Amount},
		},
	})
}

// Append validates a fully constructed transaction, assigns its ID and writes
// it to the month's journal.csv. Nothing is written when validation fails.
func (s *Store) Append(txn model.Transaction) (model.Transaction, error) {
	if verrs := ValidateTransaction(txn, s.accounts, s.tolerance); len(verrs) > 0 {
		return model.Transaction{}, verrs
	}

	year, month := txn.Date.Year(), int(txn.Date.Month())
	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return model.Transaction{}, err
	}

	txn.ID = id.FormatTransactionID(year, month, nextSeq(existing))
	txn.ReversedBy = ""

	if verrs := ValidateMonth(append(existing, txn), year, month); len(verrs) > 0 {
		return model.Transaction{}, verrs
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.Transaction{}, fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return model.Transaction{}, fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, []model.Transaction{txn}); err != nil {
		return model.Transaction{}, fmt.Errorf("appending %s: %w", txn.ID, err)
	}

	return txn, nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

// ReadAll reads the whole journal in month order, and in ID order within a month.
func (s *Store) ReadAll() ([]model.Transaction, error) {
	months, err := s.months()
	if err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, ym := range months {
		txns, err := s.ReadMonth(ym[0], ym[1])
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

// months lists the (year, month) pairs that have a journal file, oldest first.
func (s *Store) months() ([][2]int, error) {
	years, err := numericDirs(filepath.Join(s.root, journalDir))
	if err != nil {
		return nil, err
	}

	var out [][2]int
	for _, y := range years {
		months, err := numericDirs(filepath.Join(s.root, journalDir, fmt.Sprintf("%04d", y)))
		if err != nil {
			return nil, err
		}
		for _, m := range months {
			if m >= 1 && m <= 12 {
				out = append(out, [2]int{y, m})
			}
		}
	}
	return out, nil
}

func numericDirs(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var nums []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums, nil
}

// Find returns the transaction with the given ID.
func (s *Store) Find(txnID string) (model.Transaction, error) {
	year, month, _, err := id.ParseTransactionID(txnID)
	if err != nil {
		return model.Transaction{}, err
	}
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, txn := range txns {
		if txn.ID == txnID {
			return txn, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("%s: %w", txnID, ErrNotFound)
}

// HasPostings reports whether any line in the journal references accountID.
func (s *Store) HasPostings(accountID int) (bool, error) {
	txns, err := s.ReadAll()
	if err != nil {
		return false, err
	}
	for _, txn := range txns {
		if txn.Touches(accountID) {
			return true, nil
		}
	}
	return false, nil
}

// MarkReversed records on the original transaction that reversalID reverses
// it. The linkage is set exactly once.
func (s *Store) MarkReversed(originalID, reversalID string) error {
	year, month, _, err := id.ParseTransactionID(originalID)
	if err != nil {
		return err
	}
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}

	found := false
	for i := range txns {
		if txns[i].ID != originalID {
			continue
		}
		if txns[i].IsReversed() {
			return fmt.Errorf("%s reversed by %s: %w", originalID, txns[i].ReversedBy, ErrAlreadyLinked)
		}
		txns[i].ReversedBy = reversalID
		found = true
	}
	if !found {
		return fmt.Errorf("%s: %w", originalID, ErrNotFound)
	}

	return s.rewriteMonth(year, month, txns)
}

// rewriteMonth replaces a month file through a temp file and rename.
func (s *Store) rewriteMonth(year, month int, txns []model.Transaction) error {
	path := s.monthPath(year, month)
	tmp, err := os.CreateTemp(filepath.Dir(path), "journal-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTransactions(tmp, txns); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing journal %s: %w", path, err)
	}
	return nil
}

// NextSeq returns the next available sequence number for a month.
func (s *Store) NextSeq(year, month int) (int, error) {
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}
	return nextSeq(txns), nil
}

func nextSeq(txns []model.Transaction) int {
	maxSeq := 0
	for _, txn := range txns {
		_, _, seq, err := id.ParseTransactionID(txn.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.root, journalDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
