package closing

import (
	"errors"
	"fmt"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

// ErrInvalidState is returned for a step the run's current state does not allow.
var ErrInvalidState = errors.New("invalid closing state")

// State is the progress of a closing run.
type State int

const (
	NotPrepared State = iota
	Previewed
	Booked
)

func (s State) String() string {
	switch s {
	case NotPrepared:
		return "not prepared"
	case Previewed:
		return "previewed"
	case Booked:
		return "booked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Appender persists a fully built transaction and returns it with its ID.
type Appender interface {
	Append(txn model.Transaction) (model.Transaction, error)
}

// Run closes one fiscal year. Preview may be repeated until Book succeeds;
// after that the run is finished.
type Run struct {
	Year         int
	ClearingCode string

	state State
	entry model.Transaction
}

// NewRun returns a run for closing year.
func NewRun(year int, clearingCode string) *Run {
	return &Run{Year: year, ClearingCode: clearingCode}
}

// State returns the current state.
func (r *Run) State() State { return r.state }

// Entry returns the last previewed or booked entry.
func (r *Run) Entry() model.Transaction { return r.entry }

// Preview builds the closing entry. A failed preview leaves the state unchanged.
func (r *Run) Preview(j *ledger.Journal, chart Chart) (model.Transaction, error) {
	if r.state == Booked {
		return model.Transaction{}, fmt.Errorf("preview closing %d: %w: already %s", r.Year, ErrInvalidState, r.state)
	}
	entry, err := BuildClosingEntry(j, chart, r.Year, r.ClearingCode)
	if err != nil {
		return model.Transaction{}, err
	}
	r.entry = entry
	r.state = Previewed
	return entry, nil
}

// Book appends the previewed entry.
func (r *Run) Book(app Appender) (model.Transaction, error) {
	if r.state != Previewed {
		return model.Transaction{}, fmt.Errorf("book closing %d: %w: %s", r.Year, ErrInvalidState, r.state)
	}
	booked, err := app.Append(r.entry)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("book closing %d: %w", r.Year, err)
	}
	r.entry = booked
	r.state = Booked
	return booked, nil
}
