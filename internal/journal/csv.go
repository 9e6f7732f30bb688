package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/id"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one line of a
// transaction; transaction-level fields repeat on every row.
const Header = "line_id,date,kind,account_id,description,debit,credit,contact_id,reference,document_id,reverses_id,reversed_by,reason,cost_center,project"

const (
	numFields    = 15
	dateFormat   = "2006-01-02"
	colLineID    = 0
	colDate      = 1
	colKind      = 2
	colAcctID    = 3
	colDesc      = 4
	colDebit     = 5
	colCredit    = 6
	colContact   = 7
	colRef       = 8
	colDocument  = 9
	colReverses  = 10
	colReversedB = 11
	colReason    = 12
	colCostCtr   = 13
	colProject   = 14
)

// ReadTransactions reads all transactions from a journal.csv reader. Rows of
// the same transaction must be adjacent.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, line, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		n := len(txns)
		if n > 0 && txns[n-1].ID == txn.ID {
			if got := id.LineIndex(rec[colLineID]); got != len(txns[n-1].Lines) {
				return nil, fmt.Errorf("row %d: line %s out of order", i+2, rec[colLineID])
			}
			txns[n-1].Lines = append(txns[n-1].Lines, line)
			continue
		}
		if got := id.LineIndex(rec[colLineID]); got != 0 {
			return nil, fmt.Errorf("row %d: transaction %s does not start with its first line", i+2, txn.ID)
		}
		txn.Lines = []model.Line{line}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a journal.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeRows(cw, txns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendTransactions appends transactions to an existing journal.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := writeRows(cw, txns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(cw *csv.Writer, txns []model.Transaction) error {
	for _, txn := range txns {
		for n := range txn.Lines {
			if err := cw.Write(MarshalRow(txn, n)); err != nil {
				return fmt.Errorf("writing %s: %w", id.FormatLineID(txn.ID, n), err)
			}
		}
	}
	return nil
}

// MarshalRow converts line n of a transaction to a CSV row.
func MarshalRow(txn model.Transaction, n int) []string {
	line := txn.Lines[n]
	row := make([]string, numFields)
	row[colLineID] = id.FormatLineID(txn.ID, n)
	row[colDate] = txn.Date.Format(dateFormat)
	row[colKind] = string(txn.Kind)
	row[colAcctID] = strconv.Itoa(line.AccountID)
	row[colDesc] = txn.Description

	// Reversal lines carry negative amounts; only exact zeros are left blank.
	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.StringFixed(2)
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.StringFixed(2)
	}

	row[colContact] = txn.ContactID
	row[colRef] = txn.Reference
	row[colDocument] = txn.DocumentID
	row[colReverses] = txn.ReversesID
	row[colReversedB] = txn.ReversedBy
	row[colReason] = txn.Reason
	row[colCostCtr] = line.CostCenter
	row[colProject] = line.Project
	return row
}

// UnmarshalRow converts a CSV row to the transaction header it belongs to and
// the line it carries. The returned transaction has no lines.
func UnmarshalRow(record []string) (model.Transaction, model.Line, error) {
	if len(record) != numFields {
		return model.Transaction{}, model.Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	kind := model.TransactionKind(record[colKind])
	if !kind.Valid() {
		return model.Transaction{}, model.Line{}, fmt.Errorf("unknown kind %q", record[colKind])
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	debit, err := parseAmount(record[colDebit])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := parseAmount(record[colCredit])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}

	txn := model.Transaction{
		ID:          id.TransactionID(record[colLineID]),
		Date:        date,
		Kind:        kind,
		Description: record[colDesc],
		Reference:   record[colRef],
		ContactID:   record[colContact],
		DocumentID:  record[colDocument],
		ReversesID:  record[colReverses],
		ReversedBy:  record[colReversedB],
		Reason:      record[colReason],
	}
	line := model.Line{
		AccountID:  accountID,
		Debit:      debit,
		Credit:     credit,
		CostCenter: record[colCostCtr],
		Project:    record[colProject],
	}
	return txn, line, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
