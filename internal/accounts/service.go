package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// ErrAccountInUse is returned when changing the polarity of an account that
// already has postings.
var ErrAccountInUse = errors.New("account has postings")

// MissingAccountError reports an account an operation requires but the chart
// does not contain.
type MissingAccountError struct {
	Code    string
	Purpose string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("missing %s account %s in chart of accounts", e.Purpose, e.Code)
}

// PostingChecker reports whether any journal line references an account.
type PostingChecker interface {
	HasPostings(accountID int) (bool, error)
}

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[int]int
	byCode   map[string]int
}

// NewService creates a Service from a slice of accounts. Accounts are kept in
// code order.
func NewService(accounts []model.Account) *Service {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	s := &Service{accounts: sorted}
	s.reindex()
	return s
}

func (s *Service) reindex() {
	s.byID = make(map[int]int, len(s.accounts))
	s.byCode = make(map[string]int, len(s.accounts))
	for i, a := range s.accounts {
		s.byID[a.ID] = i
		s.byCode[a.Code] = i
	}
}

func chartPath(root string) string {
	return filepath.Join(root, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a ledger root and returns a Service.
func Load(root string) (*Service, error) {
	f, err := os.Open(chartPath(root))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in code order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// ByCode returns an account by its code.
func (s *Service) ByCode(code string) (model.Account, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Add registers a new account. IDs and codes must be unique.
func (s *Service) Add(a model.Account) error {
	if !a.Type.Valid() {
		return fmt.Errorf("account %s: unknown type %q", a.Code, a.Type)
	}
	if s.Exists(a.ID) {
		return fmt.Errorf("account id %d already exists", a.ID)
	}
	if _, ok := s.byCode[a.Code]; ok {
		return fmt.Errorf("account code %s already exists", a.Code)
	}
	s.accounts = append(s.accounts, a)
	sort.SliceStable(s.accounts, func(i, j int) bool { return s.accounts[i].Code < s.accounts[j].Code })
	s.reindex()
	return nil
}

// Reclassify changes an account's type. Historical balances depend on the
// type, so the change is refused once any line references the account.
func (s *Service) Reclassify(id int, typ model.AccountType, postings PostingChecker) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("account %d not found", id)
	}
	if !typ.Valid() {
		return fmt.Errorf("unknown account type %q", typ)
	}
	if s.accounts[i].Type == typ {
		return nil
	}
	used, err := postings.HasPostings(id)
	if err != nil {
		return fmt.Errorf("checking postings for account %s: %w", s.accounts[i].Code, err)
	}
	if used {
		return fmt.Errorf("reclassifying account %s from %s to %s: %w", s.accounts[i].Code, s.accounts[i].Type, typ, ErrAccountInUse)
	}
	s.accounts[i].Type = typ
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(chartPath(root))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
