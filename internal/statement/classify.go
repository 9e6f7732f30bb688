package statement

import (
	"strconv"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// codeRange is a half-open range [lo, hi) of four-digit account prefixes.
type codeRange struct {
	lo, hi   int
	category CategoryID
}

// classification maps SKR03 account ranges per account type. The first
// matching range wins; unmatched accounts land in the type's default bucket.
var classification = map[model.AccountType][]codeRange{
	model.AccountTypeAsset: {
		{1, 100, IntangibleAssets},
		{100, 500, TangibleAssets},
		{500, 600, FinancialAssets},
		{980, 990, PrepaidExpenses},
		{1000, 1400, CashAndBank},
		{1400, 1500, TradeReceivables},
		{1500, 1600, OtherReceivables},
		{3970, 3990, Inventories},
	},
	model.AccountTypeLiability: {
		{600, 700, BankLoans},
		{950, 970, TaxProvisions},
		{970, 980, OtherProvisions},
		{990, 1000, DeferredIncome},
		{1600, 1700, TradePayables},
		{1750, 1800, TaxLiabilities},
	},
	model.AccountTypeEquity: {
		{800, 840, SubscribedCapital},
		{840, 900, Reserves},
		{9000, 9100, CarryForward},
	},
	model.AccountTypeRevenue: {
		{2600, 2700, InterestIncome},
		{8000, 8900, SalesRevenue},
	},
	model.AccountTypeExpense: {
		{2100, 2200, InterestExpense},
		{2200, 2300, TaxesOnIncome},
		{3000, 4000, CostOfMaterials},
		{4100, 4200, PersonnelCosts},
		{4820, 4900, Depreciation},
	},
}

var defaultBucket = map[model.AccountType]CategoryID{
	model.AccountTypeAsset:     OtherReceivables,
	model.AccountTypeLiability: OtherLiabilities,
	model.AccountTypeEquity:    OtherEquity,
	model.AccountTypeRevenue:   OtherOperatingIncome,
	model.AccountTypeExpense:   OtherOperatingExpenses,
}

// Classify returns the statement category of an account, from its type and
// the number formed by the first four digits of its code. Every account gets
// a category; an account with an unknown type is treated as an asset.
func Classify(acct model.Account) CategoryID {
	typ := acct.Type
	if !typ.Valid() {
		typ = model.AccountTypeAsset
	}
	if prefix, ok := codePrefix(acct.Code); ok {
		for _, r := range classification[typ] {
			if prefix >= r.lo && prefix < r.hi {
				return r.category
			}
		}
	}
	return defaultBucket[typ]
}

// Option adjusts how accounts are classified for the statements.
type Option func(*classifier)

// WithClearingAccount routes the account with the given code to the
// CarryForward memo whatever its type or number range. Closing entries offset
// every carried balance against this account, so it must stay outside both
// balance sheet sides.
func WithClearingAccount(code string) Option {
	return func(c *classifier) { c.clearing = code }
}

type classifier struct {
	clearing string
}

func newClassifier(opts []Option) classifier {
	var c classifier
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c classifier) classify(acct model.Account) CategoryID {
	if c.clearing != "" && acct.Code == c.clearing {
		return CarryForward
	}
	return Classify(acct)
}

// codePrefix parses the leading four digits of a code. Shorter numeric codes
// are read as-is.
func codePrefix(code string) (int, bool) {
	end := 0
	for end < len(code) && end < 4 && code[end] >= '0' && code[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(code[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
