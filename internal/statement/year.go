package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// Window is a fiscal year up to an as-of date. Fiscal years are calendar years.
type Window struct {
	Year int
	AsOf time.Time
}

// YearWindow returns the window covering the whole of year.
func YearWindow(year int) Window {
	return Window{Year: year, AsOf: time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)}
}

// From returns January 1 of the window's year.
func (w Window) From() time.Time {
	return time.Date(w.Year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (w Window) normalized() Window {
	if w.AsOf.IsZero() || w.AsOf.Year() != w.Year {
		return YearWindow(w.Year)
	}
	return w
}

// incomeStatement reports whether the category belongs to the P&L.
func incomeStatement(id CategoryID) bool {
	for _, l := range ProfitAndLoss.Leaves() {
		if l.Key == id {
			return true
		}
	}
	return false
}

// AccountAmount is one account's contribution to a category.
type AccountAmount struct {
	Account model.Account
	Amount  decimal.Decimal
}

// accountAmount returns the figure an account contributes to its category:
// the change over the window for P&L accounts, the balance at the window end
// for balance sheet accounts.
func accountAmount(m *ledger.Memo, acct model.Account, cat CategoryID, w Window) decimal.Decimal {
	if incomeStatement(cat) {
		return ledger.Window(acct.ID, m.Journal(), m.Chart(), w.From(), w.AsOf)
	}
	return m.AccountStats(acct.ID, w.AsOf).EndingBalance
}

// AggregateCategory sums the contributions of all accounts of the given type
// that classify to id.
func AggregateCategory(id CategoryID, typ model.AccountType, j *ledger.Journal, chart ledger.Chart, w Window, opts ...Option) decimal.Decimal {
	c := newClassifier(opts)
	m := ledger.NewMemo(j, chart)
	w = w.normalized()
	sum := decimal.Zero
	for _, acct := range chart.All() {
		if acct.Type != typ || c.classify(acct) != id {
			continue
		}
		sum = sum.Add(accountAmount(m, acct, id, w))
	}
	return sum
}

// RollUp sets every Total of the tree to the sum of its children's values.
func RollUp(tree Tree, values map[CategoryID]decimal.Decimal) {
	for _, side := range tree.Sides {
		for _, n := range side.Nodes {
			tot, ok := n.(Total)
			if !ok {
				continue
			}
			sum := decimal.Zero
			for _, c := range tot.Children {
				sum = sum.Add(values[c.Key])
			}
			values[tot.Key] = sum
		}
	}
}

// sideSum adds the top-level nodes of a side. Run RollUp first.
func sideSum(side Side, values map[CategoryID]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, n := range side.Nodes {
		sum = sum.Add(values[n.ID()])
	}
	return sum
}

// YearData is the computed content of both statements for one window.
type YearData struct {
	Window                  Window
	Values                  map[CategoryID]decimal.Decimal
	Accounts                map[CategoryID][]AccountAmount
	SumAssets               decimal.Decimal
	SumLiabilitiesAndEquity decimal.Decimal
	NetResult               decimal.Decimal
}

// Value returns the value of a category, zero when it has none.
func (y YearData) Value(id CategoryID) decimal.Decimal {
	if v, ok := y.Values[id]; ok {
		return v
	}
	return decimal.Zero
}

// Discrepancy returns SumAssets − SumLiabilitiesAndEquity.
func (y YearData) Discrepancy() decimal.Decimal {
	return y.SumAssets.Sub(y.SumLiabilitiesAndEquity)
}

// Balanced reports whether both sides agree within tol.
func (y YearData) Balanced(tol decimal.Decimal) bool {
	return ledger.NearlyZero(y.Discrepancy(), tol)
}

// profitAndLoss fills the P&L leaves and totals for a window and returns the
// net result.
func profitAndLoss(m *ledger.Memo, c classifier, w Window, values map[CategoryID]decimal.Decimal, accts map[CategoryID][]AccountAmount) decimal.Decimal {
	for _, acct := range m.Chart().All() {
		if acct.Type.BalanceSheet() {
			continue
		}
		cat := c.classify(acct)
		if cat == CarryForward {
			continue
		}
		amt := accountAmount(m, acct, cat, w)
		values[cat] = values[cat].Add(amt)
		if accts != nil && !amt.IsZero() {
			accts[cat] = append(accts[cat], AccountAmount{Account: acct, Amount: amt})
		}
	}
	RollUp(ProfitAndLoss, values)
	return values[TotalIncome].Sub(values[TotalExpenses])
}

// NetResult returns the P&L result (income − expenses) for a window.
func NetResult(j *ledger.Journal, chart ledger.Chart, w Window, opts ...Option) decimal.Decimal {
	return profitAndLoss(ledger.NewMemo(j, chart), newClassifier(opts), w.normalized(), map[CategoryID]decimal.Decimal{}, nil)
}

// BuildYear computes both statements for year up to asOf. A zero asOf, or one
// outside year, means December 31.
//
// The current-year result is the P&L result of the window; retained earnings
// are the sum of the results of all earlier years of the journal. The
// clearing account appears only as the CarryForward memo value; without
// WithClearingAccount only the 9000-9099 range is recognised as clearing.
func BuildYear(j *ledger.Journal, chart ledger.Chart, year int, asOf time.Time, opts ...Option) YearData {
	w := Window{Year: year, AsOf: asOf}.normalized()
	c := newClassifier(opts)
	m := ledger.NewMemo(j, chart)

	values := make(map[CategoryID]decimal.Decimal)
	for _, l := range ProfitAndLoss.Leaves() {
		values[l.Key] = decimal.Zero
	}
	for _, l := range BalanceSheet.Leaves() {
		values[l.Key] = decimal.Zero
	}
	values[CarryForward] = decimal.Zero
	accts := make(map[CategoryID][]AccountAmount)

	net := profitAndLoss(m, c, w, values, accts)

	for _, acct := range chart.All() {
		cat := c.classify(acct)
		if !acct.Type.BalanceSheet() && cat != CarryForward {
			continue
		}
		amt := accountAmount(m, acct, cat, w)
		values[cat] = values[cat].Add(amt)
		if !amt.IsZero() {
			accts[cat] = append(accts[cat], AccountAmount{Account: acct, Amount: amt})
		}
	}

	values[CurrentYearResult] = net
	retained := decimal.Zero
	if first := j.FirstYear(); first != 0 {
		for y := first; y < w.Year; y++ {
			retained = retained.Add(NetResult(j, chart, YearWindow(y), opts...))
		}
	}
	values[RetainedEarnings] = retained

	RollUp(BalanceSheet, values)

	return YearData{
		Window:                  w,
		Values:                  values,
		Accounts:                accts,
		SumAssets:               sideSum(BalanceSheet.Sides[0], values),
		SumLiabilitiesAndEquity: sideSum(BalanceSheet.Sides[1], values),
		NetResult:               net,
	}
}
