// Package statement classifies accounts into the statutory profit-and-loss
// and balance-sheet categories and computes both statements for a year.
package statement

// CategoryID names a node of a statement tree.
type CategoryID string

// Profit and loss (income statement) categories.
const (
	SalesRevenue           CategoryID = "sales_revenue"
	OtherOperatingIncome   CategoryID = "other_operating_income"
	InterestIncome         CategoryID = "interest_income"
	CostOfMaterials        CategoryID = "cost_of_materials"
	PersonnelCosts         CategoryID = "personnel_costs"
	Depreciation           CategoryID = "depreciation"
	OtherOperatingExpenses CategoryID = "other_operating_expenses"
	InterestExpense        CategoryID = "interest_expense"
	TaxesOnIncome          CategoryID = "taxes_on_income"

	TotalIncome   CategoryID = "total_income"
	TotalExpenses CategoryID = "total_expenses"
)

// Balance sheet categories.
const (
	IntangibleAssets CategoryID = "intangible_assets"
	TangibleAssets   CategoryID = "tangible_assets"
	FinancialAssets  CategoryID = "financial_assets"
	Inventories      CategoryID = "inventories"
	TradeReceivables CategoryID = "trade_receivables"
	OtherReceivables CategoryID = "other_receivables"
	CashAndBank      CategoryID = "cash_and_bank"
	PrepaidExpenses  CategoryID = "prepaid_expenses"

	SubscribedCapital CategoryID = "subscribed_capital"
	Reserves          CategoryID = "reserves"
	OtherEquity       CategoryID = "other_equity"
	RetainedEarnings  CategoryID = "retained_earnings"
	CurrentYearResult CategoryID = "current_year_result"
	TaxProvisions     CategoryID = "tax_provisions"
	OtherProvisions   CategoryID = "other_provisions"
	BankLoans         CategoryID = "bank_loans"
	TradePayables     CategoryID = "trade_payables"
	TaxLiabilities    CategoryID = "tax_liabilities"
	OtherLiabilities  CategoryID = "other_liabilities"
	DeferredIncome    CategoryID = "deferred_income"

	FixedAssets   CategoryID = "fixed_assets"
	CurrentAssets CategoryID = "current_assets"
	Equity        CategoryID = "equity"
	Provisions    CategoryID = "provisions"
	Liabilities   CategoryID = "liabilities"

	// CarryForward holds the opening-balance clearing account. It is shown
	// as a memo line and belongs to neither side of the balance sheet.
	CarryForward CategoryID = "carry_forward_clearing"
)

// Node is a Leaf or a Total.
type Node interface {
	ID() CategoryID
	Label() string
	node()
}

// Leaf receives account balances (or a computed result).
type Leaf struct {
	Key  CategoryID
	Name string
}

// Total sums its children. Children are leaves only, so roll-up is exactly
// one level deep.
type Total struct {
	Key      CategoryID
	Name     string
	Children []Leaf
}

func (l Leaf) ID() CategoryID { return l.Key }
func (l Leaf) Label() string { return l.Name }
func (Leaf) node() {}

func (t Total) ID() CategoryID { return t.Key }
func (t Total) Label() string { return t.Name }
func (Total) node() {}

// Side is one column of a statement: its top-level nodes add up to the side's sum.
type Side struct {
	Name  string
	Nodes []Node
}

// Tree is a complete statement layout.
type Tree struct {
	Name  string
	Sides []Side
}

// ProfitAndLoss is the income statement layout (total cost method).
var ProfitAndLoss = Tree{
	Name: "Gewinn- und Verlustrechnung",
	Sides: []Side{
		{Name: "Erträge", Nodes: []Node{
			Total{Key: TotalIncome, Name: "Summe Erträge", Children: []Leaf{
				{SalesRevenue, "Umsatzerlöse"},
				{OtherOperatingIncome, "Sonstige betriebliche Erträge"},
				{InterestIncome, "Zinsen und ähnliche Erträge"},
			}},
		}},
		{Name: "Aufwendungen", Nodes: []Node{
			Total{Key: TotalExpenses, Name: "Summe Aufwendungen", Children: []Leaf{
				{CostOfMaterials, "Materialaufwand"},
				{PersonnelCosts, "Personalaufwand"},
				{Depreciation, "Abschreibungen"},
				{OtherOperatingExpenses, "Sonstige betriebliche Aufwendungen"},
				{InterestExpense, "Zinsen und ähnliche Aufwendungen"},
				{TaxesOnIncome, "Steuern vom Einkommen und vom Ertrag"},
			}},
		}},
	},
}

// BalanceSheet is the balance sheet layout. Side 0 is assets, side 1 is
// equity and liabilities.
var BalanceSheet = Tree{
	Name: "Bilanz",
	Sides: []Side{
		{Name: "Aktiva", Nodes: []Node{
			Total{Key: FixedAssets, Name: "Anlagevermögen", Children: []Leaf{
				{IntangibleAssets, "Immaterielle Vermögensgegenstände"},
				{TangibleAssets, "Sachanlagen"},
				{FinancialAssets, "Finanzanlagen"},
			}},
			Total{Key: CurrentAssets, Name: "Umlaufvermögen", Children: []Leaf{
				{Inventories, "Vorräte"},
				{TradeReceivables, "Forderungen aus Lieferungen und Leistungen"},
				{OtherReceivables, "Sonstige Vermögensgegenstände"},
				{CashAndBank, "Kassenbestand, Guthaben bei Kreditinstituten"},
			}},
			Leaf{PrepaidExpenses, "Rechnungsabgrenzungsposten"},
		}},
		{Name: "Passiva", Nodes: []Node{
			Total{Key: Equity, Name: "Eigenkapital", Children: []Leaf{
				{SubscribedCapital, "Gezeichnetes Kapital"},
				{Reserves, "Rücklagen"},
				{OtherEquity, "Sonstiges Eigenkapital"},
				{RetainedEarnings, "Gewinnvortrag / Verlustvortrag"},
				{CurrentYearResult, "Jahresüberschuss / Jahresfehlbetrag"},
			}},
			Total{Key: Provisions, Name: "Rückstellungen", Children: []Leaf{
				{TaxProvisions, "Steuerrückstellungen"},
				{OtherProvisions, "Sonstige Rückstellungen"},
			}},
			Total{Key: Liabilities, Name: "Verbindlichkeiten", Children: []Leaf{
				{BankLoans, "Verbindlichkeiten gegenüber Kreditinstituten"},
				{TradePayables, "Verbindlichkeiten aus Lieferungen und Leistungen"},
				{TaxLiabilities, "Steuerverbindlichkeiten"},
				{OtherLiabilities, "Sonstige Verbindlichkeiten"},
			}},
			Leaf{DeferredIncome, "Passive Rechnungsabgrenzung"},
		}},
	},
}

// CarryForwardMemo is the memo line for the clearing account.
var CarryForwardMemo = Leaf{CarryForward, "Saldenvorträge (Verrechnung)"}

// Leaves returns every leaf of the tree in layout order.
func (t Tree) Leaves() []Leaf {
	var out []Leaf
	for _, side := range t.Sides {
		for _, n := range side.Nodes {
			switch n := n.(type) {
			case Leaf:
				out = append(out, n)
			case Total:
				out = append(out, n.Children...)
			}
		}
	}
	return out
}

// Label returns the display label of a category in either tree.
func Label(id CategoryID) string {
	for _, t := range []Tree{ProfitAndLoss, BalanceSheet} {
		for _, side := range t.Sides {
			for _, n := range side.Nodes {
				if n.ID() == id {
					return n.Label()
				}
				if tot, ok := n.(Total); ok {
					for _, c := range tot.Children {
						if c.Key == id {
							return c.Name
						}
					}
				}
			}
		}
	}
	if id == CarryForward {
		return CarryForwardMemo.Name
	}
	return string(id)
}
