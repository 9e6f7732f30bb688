package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTransactionID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2025, 1, 1, "2025-01-001"},
		{2025, 12, 99, "2025-12-099"},
		{2025, 1, 123, "2025-01-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTransactionID(tt.year, tt.month, tt.seq))
	}
}

func TestFormatLineID(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "2025-01-001a"},
		{1, "2025-01-001b"},
		{25, "2025-01-001z"},
		{26, "2025-01-001aa"},
		{27, "2025-01-001ab"},
		{52, "2025-01-001ba"},
	}
	for _, tt := range tests {
		got := FormatLineID("2025-01-001", tt.n)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.n, LineIndex(got), "LineIndex(%s)", got)
	}
	assert.Equal(t, -1, LineIndex("2025-01-001"))
}

func TestParseTransactionID(t *testing.T) {
	tests := []struct {
		input               string
		wantYear, wantMonth int
		wantSeq             int
	}{
		{"2025-01-001", 2025, 1, 1},
		{"2025-12-099", 2025, 12, 99},
		{"2025-01-001a", 2025, 1, 1},
		{"2025-01-001ab", 2025, 1, 1},
	}
	for _, tt := range tests {
		year, month, seq, err := ParseTransactionID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseTransactionID_Errors(t *testing.T) {
	for _, input := range []string{"", "not-valid", "2025-01", "xxxx-01-001", "2025-13-001"} {
		_, _, _, err := ParseTransactionID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestTransactionID(t *testing.T) {
	assert.Equal(t, "2025-01-001", TransactionID("2025-01-001a"))
	assert.Equal(t, "2025-01-001", TransactionID("2025-01-001"))
	assert.Equal(t, "", TransactionID(""))
}
