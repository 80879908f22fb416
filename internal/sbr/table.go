// Package sbr implements the Same-Bank Request table: one entry per
// unique (bank_group, bank), chaining together the SRR entries that
// target it and exposing the find_max critical-path operation.
package sbr

import "github.com/sahil-g0/dramsched/internal/reqbuf"

// Entry is one Same-Bank Request cluster.
type Entry struct {
	Tag reqbuf.MissTag

	TotalRequests int
	RowCount      int
	HeadSRR       int
	TailSRR       int

	Valid bool
}

// Table is the fixed-capacity SBR table.
type Table struct {
	capacity int
	entries  []Entry
}

// NewTable creates an empty SBR table with the given capacity
// (MAX_SBR_ENTRIES).
func NewTable(capacity int) *Table {
	return &Table{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Len returns num_sbr_entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Get returns the entry at the given SBR index.
func (t *Table) Get(index int) Entry {
	return t.entries[index]
}

// LookupByMissTag returns the lowest index whose Tag matches, or
// ok=false on a miss.
func (t *Table) LookupByMissTag(tag reqbuf.MissTag) (index int, ok bool) {
	for i, e := range t.entries {
		if e.Valid && e.Tag == tag {
			return i, true
		}
	}

	return 0, false
}

// New allocates a new SBR entry for a first-seen miss_tag. It panics if
// the table is already at capacity, the same fatal-assertion posture as
// srr.Table.New: at the configured sizes Phase 1b cannot overflow it.
func (t *Table) New(tag reqbuf.MissTag, headSRR, rowRequestCount int) (index int) {
	if len(t.entries) >= t.capacity {
		panic("sbr: table full")
	}

	t.entries = append(t.entries, Entry{
		Tag:           tag,
		TotalRequests: rowRequestCount,
		RowCount:      1,
		HeadSRR:       headSRR,
		TailSRR:       headSRR,
		Valid:         true,
	})

	return len(t.entries) - 1
}

// Update mutates an existing entry's tail pointer, row count and running
// total-request count.
func (t *Table) Update(index, rowCount, totalRequests, tailSRR int) {
	e := t.entries[index]
	e.RowCount = rowCount
	e.TotalRequests = totalRequests
	e.TailSRR = tailSRR
	t.entries[index] = e
}

// FindMax returns the index of the SBR entry with the greatest
// TotalRequests, using strict '>' so that the lowest index wins ties.
// Entries with Valid=false or TotalRequests=0 are ignored. ok is false
// when no entry qualifies, in particular when the table is empty.
func (t *Table) FindMax() (index int, ok bool) {
	best := -1
	bestTotal := 0

	for i, e := range t.entries {
		if !e.Valid || e.TotalRequests == 0 {
			continue
		}

		if e.TotalRequests > bestTotal {
			best = i
			bestTotal = e.TotalRequests
		}
	}

	if best == -1 {
		return 0, false
	}

	return best, true
}

// Reset clears the table back to empty. Called on schedule_start's
// scratchpad_clear.
func (t *Table) Reset() {
	t.entries = t.entries[:0]
}
