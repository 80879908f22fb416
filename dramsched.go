// Package dramsched is a batch-oriented DRAM command scheduler: submit
// read requests addressed by (bank_group, bank, row, column), trigger a
// batch, and read back a cycle-accurate sequence of ACT/PRE/RD commands.
//
// The scheduling core (internal/reqbuf, internal/srr, internal/sbr,
// internal/bankstate, internal/schedmem, internal/batch, internal/gen) is
// pure and side-effect free; this package is the Top-Level Coordinator
// that drives the IDLE -> BATCH -> GEN -> DONE -> IDLE handshake and wires
// in the ambient concerns (batch identity, optional tracing) at the edge,
// the same split the teacher keeps between mem/dram's channel/bank model
// and its Builder/Comp.
package dramsched

import (
	"github.com/rs/xid"

	"github.com/sahil-g0/dramsched/internal/bankstate"
	"github.com/sahil-g0/dramsched/internal/batch"
	"github.com/sahil-g0/dramsched/internal/dramtrace"
	"github.com/sahil-g0/dramsched/internal/gen"
	"github.com/sahil-g0/dramsched/internal/reqbuf"
	"github.com/sahil-g0/dramsched/internal/sbr"
	"github.com/sahil-g0/dramsched/internal/schedmem"
	"github.com/sahil-g0/dramsched/internal/srr"
	"github.com/sahil-g0/dramsched/internal/timing"
)

// State is the coordinator's position in the IDLE/BATCH/GEN/DONE handshake.
type State int

// The four coordinator states, per §4.8.
const (
	Idle State = iota
	Batch
	Gen
	Done
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Batch:
		return "BATCH"
	case Gen:
		return "GEN"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Scheduler is the Top-Level Coordinator: it owns one instance of every
// scratchpad component and drives them through one batch at a time.
type Scheduler struct {
	cst timing.Constants

	buf     *reqbuf.Buffer
	srrT    *srr.Table
	sbrT    *sbr.Table
	tracker *bankstate.Tracker
	mem     *schedmem.Memory

	trace dramtrace.Writer

	state      State
	batchID    string
	lastResult batch.Result
}

// Submit adds one read request to the buffer. Per §4.1/§6, acceptance
// only depends on buffer capacity and schedule_busy: a request is
// refused while a batch is mid-flight (BATCH or GEN) or once the buffer
// is full, but is accepted in IDLE and DONE alike, so a caller may read
// back one batch's schedule and queue the next round before Reset.
func (s *Scheduler) Submit(bankGroup, bank, row, column int) (requestID int, ok bool) {
	if s.ScheduleBusy() {
		return 0, false
	}

	return s.buf.Submit(bankGroup, bank, row, column)
}

// ScheduleStart runs one full batch to completion: it clears the
// scratchpad (SRR, SBR, bank state, Schedule Memory — the request buffer
// itself persists across batches per §4.1), assigns a fresh batch
// identifier, and drives Phase 1 then Phase 2 synchronously. A faithful
// software reimplementation may be fully sequential per §5, so
// ScheduleBusy never observes BATCH or GEN from outside this call.
func (s *Scheduler) ScheduleStart() {
	s.state = Batch
	s.batchID = xid.New().String()

	s.srrT.Reset()
	s.sbrT.Reset()
	s.tracker.Reset()
	s.mem.Clear()

	s.lastResult = batch.Run(s.buf, s.srrT, s.sbrT)

	s.state = Gen
	gen.New(s.cst, s.buf, s.srrT, s.sbrT, s.tracker, s.mem).Run(s.lastResult.CriticalPathSBR)

	s.traceCompletedBatch()

	s.state = Done
}

// traceCompletedBatch mirrors every non-deselect slot of the completed
// batch into the configured trace sink, if any.
func (s *Scheduler) traceCompletedBatch() {
	if s.trace == nil {
		return
	}

	for c := 0; c <= s.mem.MaxCycle(); c++ {
		slot := s.mem.Read(c)
		if slot.Cmd == schedmem.Deselect {
			continue
		}

		s.trace.WriteCommand(s.batchID, slot)
	}

	s.trace.Flush()
}

// ScheduleBusy reports whether a batch is mid-flight (BATCH or GEN).
func (s *Scheduler) ScheduleBusy() bool {
	return s.state == Batch || s.state == Gen
}

// ScheduleDone reports whether the most recently started batch has
// finished and its schedule is safe to read.
func (s *Scheduler) ScheduleDone() bool {
	return s.state == Done
}

// Read returns the command slot at the given cycle. Reading before
// ScheduleDone is documented as undefined per §7 and deliberately not
// guarded here, matching the teacher's house style of trusting internal
// invariants on hot paths rather than defensively checking them.
func (s *Scheduler) Read(cycle int) schedmem.Slot {
	return s.mem.Read(cycle)
}

// MaxCycle returns the highest cycle index written by the most recent batch.
func (s *Scheduler) MaxCycle() int {
	return s.mem.MaxCycle()
}

// NumRequests returns the number of requests ingested into the current batch.
func (s *Scheduler) NumRequests() int {
	return s.buf.Len()
}

// NumSRREntries returns the number of SRR entries the last batch produced.
func (s *Scheduler) NumSRREntries() int {
	return s.lastResult.NumSRREntries
}

// NumSBREntries returns the number of SBR entries the last batch produced.
func (s *Scheduler) NumSBREntries() int {
	return s.lastResult.NumSBREntries
}

// CriticalPathBank returns the (bank_group, bank) of the last batch's
// critical-path SBR entry. ok is false if the batch was empty.
func (s *Scheduler) CriticalPathBank() (bankGroup, bank int, ok bool) {
	if !s.lastResult.HasCriticalPath {
		return 0, 0, false
	}

	tag := s.sbrT.Get(s.lastResult.CriticalPathSBR).Tag

	return tag.BankGroup, tag.Bank, true
}

// BatchID returns the opaque identifier assigned by the most recent
// ScheduleStart. It has no effect on scheduling semantics; it exists so a
// caller driving many successive batches can correlate a Read response or
// a trace row back to the batch that produced it.
func (s *Scheduler) BatchID() string {
	return s.batchID
}

// State returns the coordinator's current position in the handshake.
func (s *Scheduler) State() State {
	return s.state
}

// Reset returns the coordinator to IDLE and clears every component,
// including the request buffer itself — the explicit full reset, distinct
// from the scratchpad clear ScheduleStart performs on entering BATCH.
func (s *Scheduler) Reset() {
	s.buf.Reset()
	s.srrT.Reset()
	s.sbrT.Reset()
	s.tracker.Reset()
	s.mem.Clear()

	s.state = Idle
	s.batchID = ""
	s.lastResult = batch.Result{}
}
