// Package id formats and parses journal identifiers.
//
// A transaction is "2024-03-007" (year, month, sequence within the month). Each
// of its lines gets a lowercase letter suffix: "2024-03-007a", "2024-03-007b",
// ..., "2024-03-007z", "2024-03-007aa".
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTransactionID returns a transaction ID like "2025-01-001".
func FormatTransactionID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLineID returns the ID of line n (zero-based) of a transaction.
func FormatLineID(txnID string, n int) string {
	return txnID + lineSuffix(n)
}

func lineSuffix(n int) string {
	var b []byte
	for n >= 0 {
		b = append([]byte{byte('a' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

// LineIndex returns the zero-based line number encoded in a line ID's suffix,
// or -1 when the ID carries no suffix.
func LineIndex(lineID string) int {
	suffix := lineID[len(TransactionID(lineID)):]
	if suffix == "" {
		return -1
	}
	n := 0
	for _, c := range suffix {
		n = n*26 + int(c-'a') + 1
	}
	return n - 1
}

// ParseTransactionID parses "2025-01-001" (with or without a line suffix)
// into year, month, seq.
func ParseTransactionID(s string) (year, month, seq int, err error) {
	parts := strings.SplitN(TransactionID(s), "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", s, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in transaction ID %q", month, s)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", s, err)
	}

	return year, month, seq, nil
}

// TransactionID strips the line suffix from a line ID.
// "2025-01-001a" -> "2025-01-001"
func TransactionID(lineID string) string {
	i := len(lineID)
	for i > 0 && lineID[i-1] >= 'a' && lineID[i-1] <= 'z' {
		i--
	}
	return lineID[:i]
}
