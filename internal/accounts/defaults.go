package accounts

import "github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"

// ClearingAccountCode is the carry-forward clearing account of the default chart.
const ClearingAccountCode = "9000"

// DefaultChart returns the default chart of accounts for an entity type. The
// charts follow SKR03 numbering, which the statement classifier relies on.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "gmbh":
		return append(baseChart(), corporateAccounts()...)
	default:
		return baseChart()
	}
}

func acct(code, name string, typ model.AccountType) model.Account {
	return model.Account{ID: atoi(code), Code: code, Name: name, Type: typ}
}

func atoi(code string) int {
	n := 0
	for _, c := range code {
		n = n*10 + int(c-'0')
	}
	return n
}

func baseChart() []model.Account {
	receivables := acct("1400", "Forderungen aus Lieferungen und Leistungen", model.AccountTypeAsset)
	receivables.Subledger = true
	payables := acct("1600", "Verbindlichkeiten aus Lieferungen und Leistungen", model.AccountTypeLiability)
	payables.Subledger = true
	clearing := acct(ClearingAccountCode, "Saldenvorträge Sachkonten", model.AccountTypeEquity)
	clearing.Description = "Gegenkonto für Eröffnungsbuchungen"

	return []model.Account{
		acct("0027", "EDV-Software", model.AccountTypeAsset),
		acct("0420", "Technische Anlagen und Maschinen", model.AccountTypeAsset),
		acct("0480", "Geringwertige Wirtschaftsgüter", model.AccountTypeAsset),
		acct("0630", "Verbindlichkeiten gegenüber Kreditinstituten", model.AccountTypeLiability),
		acct("0800", "Gezeichnetes Kapital", model.AccountTypeEquity),
		acct("0970", "Sonstige Rückstellungen", model.AccountTypeLiability),
		acct("1000", "Kasse", model.AccountTypeAsset),
		acct("1200", "Bank", model.AccountTypeAsset),
		receivables,
		acct("1576", "Abziehbare Vorsteuer 19 %", model.AccountTypeAsset),
		payables,
		acct("1740", "Verbindlichkeiten aus Lohn und Gehalt", model.AccountTypeLiability),
		acct("1776", "Umsatzsteuer 19 %", model.AccountTypeLiability),
		acct("2100", "Zinsen und ähnliche Aufwendungen", model.AccountTypeExpense),
		acct("2650", "Sonstige Zinsen und ähnliche Erträge", model.AccountTypeRevenue),
		acct("2700", "Sonstige Erträge", model.AccountTypeRevenue),
		acct("3400", "Wareneingang 19 % Vorsteuer", model.AccountTypeExpense),
		acct("4120", "Gehälter", model.AccountTypeExpense),
		acct("4130", "Gesetzliche soziale Aufwendungen", model.AccountTypeExpense),
		acct("4210", "Miete", model.AccountTypeExpense),
		acct("4600", "Werbekosten", model.AccountTypeExpense),
		acct("4830", "Abschreibungen auf Sachanlagen", model.AccountTypeExpense),
		acct("4920", "Telefon", model.AccountTypeExpense),
		acct("4950", "Rechts- und Beratungskosten", model.AccountTypeExpense),
		acct("8125", "Steuerfreie innergemeinschaftliche Lieferungen", model.AccountTypeRevenue),
		acct("8400", "Erlöse 19 % USt", model.AccountTypeRevenue),
		clearing,
	}
}

func corporateAccounts() []model.Account {
	return []model.Account{
		acct("0840", "Kapitalrücklage", model.AccountTypeEquity),
		acct("0950", "Steuerrückstellungen", model.AccountTypeLiability),
		acct("2200", "Körperschaftsteuer", model.AccountTypeExpense),
	}
}
