// Package srr implements the Same-Row Request table: one entry per
// unique (bank_group, bank, row), chained into the owning SBR entry.
package srr

import "github.com/sahil-g0/dramsched/internal/reqbuf"

// Entry is one Same-Row Request cluster.
type Entry struct {
	Tag reqbuf.HitTag

	Count    int
	HeadReq  int
	TailReq  int

	ChainNext  int
	ChainValid bool
}

// Table is the fixed-capacity SRR table.
type Table struct {
	capacity int
	entries  []Entry
}

// NewTable creates an empty SRR table with the given capacity
// (MAX_SRR_ENTRIES).
func NewTable(capacity int) *Table {
	return &Table{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Len returns num_srr_entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Get returns the entry at the given SRR index.
func (t *Table) Get(index int) Entry {
	return t.entries[index]
}

// LookupByHitTag returns the lowest index whose Tag matches, or ok=false
// on a miss.
func (t *Table) LookupByHitTag(tag reqbuf.HitTag) (index int, ok bool) {
	for i, e := range t.entries {
		if e.Tag == tag {
			return i, true
		}
	}

	return 0, false
}

// New allocates a new SRR entry for a first-seen hit_tag. It panics if
// the table is already at capacity. Phase 1a allocates at most one SRR
// entry per request, so with the default capacities (64 requests, 32 SRR
// entries) a batch with more than 32 distinct rows reaches this panic.
func (t *Table) New(tag reqbuf.HitTag, headReq int) (index int) {
	if len(t.entries) >= t.capacity {
		panic("srr: table full")
	}

	t.entries = append(t.entries, Entry{
		Tag:     tag,
		Count:   1,
		HeadReq: headReq,
		TailReq: headReq,
	})

	return len(t.entries) - 1
}

// Update mutates an existing entry's count and tail pointer.
func (t *Table) Update(index, count, tailReq int) {
	e := t.entries[index]
	e.Count = count
	e.TailReq = tailReq
	t.entries[index] = e
}

// ChainSet sets chain_next[addr] := next and marks chain_valid.
func (t *Table) ChainSet(addr, next int) {
	e := t.entries[addr]
	e.ChainNext = next
	e.ChainValid = true
	t.entries[addr] = e
}

// Reset clears the table back to empty. Called on schedule_start's
// scratchpad_clear.
func (t *Table) Reset() {
	t.entries = t.entries[:0]
}
