// Package bankstate implements the Bank State Tracker: one open/row flag
// per (bank_group, bank).
package bankstate

import "github.com/sahil-g0/dramsched/internal/reqbuf"

type bankState struct {
	isOpen  bool
	openRow int
}

// Tracker holds the open-row state of every (bank_group, bank) pair the
// scheduler has touched so far. Untouched banks read as closed.
type Tracker struct {
	banks map[reqbuf.MissTag]bankState
}

// NewTracker creates a Tracker with every bank closed.
func NewTracker() *Tracker {
	return &Tracker{banks: make(map[reqbuf.MissTag]bankState)}
}

// Query returns whether the bank is open and, if so, its open row.
func (t *Tracker) Query(tag reqbuf.MissTag) (isOpen bool, openRow int) {
	s := t.banks[tag]

	return s.isOpen, s.openRow
}

// Activate marks the bank open with the given row.
func (t *Tracker) Activate(tag reqbuf.MissTag, row int) {
	t.banks[tag] = bankState{isOpen: true, openRow: row}
}

// Precharge marks the bank closed.
func (t *Tracker) Precharge(tag reqbuf.MissTag) {
	t.banks[tag] = bankState{isOpen: false}
}

// Reset closes every bank. Called on schedule_start's scratchpad_clear.
func (t *Tracker) Reset() {
	t.banks = make(map[reqbuf.MissTag]bankState)
}
