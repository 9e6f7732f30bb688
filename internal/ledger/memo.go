package ledger

import "time"

type memoKey struct {
	accountID int
	asOf      dateKey
}

// Memo caches AccountStats per (account, date) for one journal snapshot.
// Build a new Memo after the journal or chart changes.
type Memo struct {
	j     *Journal
	chart Chart
	stats map[memoKey]LedgerStats
}

// NewMemo returns an empty cache over j and chart.
func NewMemo(j *Journal, chart Chart) *Memo {
	return &Memo{j: j, chart: chart, stats: make(map[memoKey]LedgerStats)}
}

// AccountStats returns the cached stats, computing them on first use.
func (m *Memo) AccountStats(accountID int, asOf time.Time) LedgerStats {
	k := memoKey{accountID, keyOf(asOf)}
	if s, ok := m.stats[k]; ok {
		return s
	}
	s := AccountStats(accountID, m.j, m.chart, asOf)
	m.stats[k] = s
	return s
}

// Journal returns the journal snapshot the memo reads.
func (m *Memo) Journal() *Journal { return m.j }

// Chart returns the chart the memo reads.
func (m *Memo) Chart() Chart { return m.chart }
