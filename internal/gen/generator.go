// Package gen implements Phase 2 of the scheduling algorithm: walking
// the SRR/SBR chains built by package batch and emitting ACT/PRE/RD
// commands into Schedule Memory at the earliest cycle that satisfies
// the configured timing constraints and single-command-per-cycle
// arbitration.
package gen

import (
	"github.com/sahil-g0/dramsched/internal/bankstate"
	"github.com/sahil-g0/dramsched/internal/reqbuf"
	"github.com/sahil-g0/dramsched/internal/sbr"
	"github.com/sahil-g0/dramsched/internal/schedmem"
	"github.com/sahil-g0/dramsched/internal/srr"
	"github.com/sahil-g0/dramsched/internal/timing"
)

// sbrCursor is the per-SBR continuation context described by §4.7: it
// lets the generator interleave across banks without losing its place
// in any one bank's chain.
type sbrCursor struct {
	initialised bool
	finished    bool

	srrPtr      int
	needReqInit bool
	reqPtr      int
	srrDone     bool
}

// Generator holds the mutable timing state that Phase 2 owns exclusively
// for the duration of one batch: per-bank readiness, the last ACT/RD
// timestamps, and the four-activate window.
type Generator struct {
	cst     timing.Constants
	buf     *reqbuf.Buffer
	srrT    *srr.Table
	sbrT    *sbr.Table
	tracker *bankstate.Tracker
	mem     *schedmem.Memory

	bankCmdReady map[reqbuf.MissTag]int
	bankPreMin   map[reqbuf.MissTag]int
	bankLastAct  map[reqbuf.MissTag]int

	haveActed   bool
	lastActTime int
	actWindow   []int // chronological ACT finish times, for T_FAW

	haveRead   bool
	lastRDTime int
	lastRDBG   int
}

// New creates a Generator that will emit into mem using the given
// timing constants, reading requests from buf and the already-built
// SRR/SBR tables, and tracking open rows in tracker.
func New(
	cst timing.Constants,
	buf *reqbuf.Buffer,
	srrT *srr.Table,
	sbrT *sbr.Table,
	tracker *bankstate.Tracker,
	mem *schedmem.Memory,
) *Generator {
	return &Generator{
		cst:          cst,
		buf:          buf,
		srrT:         srrT,
		sbrT:         sbrT,
		tracker:      tracker,
		mem:          mem,
		bankCmdReady: make(map[reqbuf.MissTag]int),
		bankPreMin:   make(map[reqbuf.MissTag]int),
		bankLastAct:  make(map[reqbuf.MissTag]int),
	}
}

// Run executes Phase 2 to completion against the given critical-path SBR
// index and returns once every SBR has been fully walked.
func (g *Generator) Run(criticalPathSBR int) {
	numSBR := g.sbrT.Len()
	if numSBR == 0 {
		return
	}

	cursors := make([]sbrCursor, numSBR)
	finishedCount := 0
	cur := criticalPathSBR
	lastBG := -1

	for finishedCount < numSBR {
		c := &cursors[cur]

		if !c.initialised {
			c.srrPtr = g.sbrT.Get(cur).HeadSRR
			c.needReqInit = true
			c.initialised = true
		} else if c.srrDone {
			entry := g.srrT.Get(c.srrPtr)
			if entry.ChainValid {
				c.srrPtr = entry.ChainNext
				c.needReqInit = true
				c.srrDone = false
			} else {
				c.finished = true
				finishedCount++

				if finishedCount == numSBR {
					break
				}

				cur = pickNext(cursors, g.sbrT, lastBG)
				continue
			}
		}

		g.step(cur, c, &lastBG)

		cur = pickNext(cursors, g.sbrT, lastBG)
	}
}

// step processes exactly one row's worth of ACT/PRE bookkeeping and one
// RD, per §4.7 steps 3-5.
func (g *Generator) step(cur int, c *sbrCursor, lastBG *int) {
	entry := g.srrT.Get(c.srrPtr)

	if c.needReqInit {
		c.reqPtr = entry.HeadReq
		c.needReqInit = false
	}

	tag := g.sbrT.Get(cur).Tag
	targetRow := entry.Tag.Row

	isOpen, openRow := g.tracker.Query(tag)
	switch {
	case !isOpen:
		g.emitActivate(tag, targetRow)
	case openRow != targetRow:
		g.emitPrecharge(tag)
		g.emitActivate(tag, targetRow)
	}

	g.emitRead(tag, c.reqPtr)

	req := g.buf.Get(c.reqPtr)
	if req.ChainValid {
		c.reqPtr = req.ChainNext
		c.srrDone = false
	} else {
		c.srrDone = true
	}

	*lastBG = tag.BankGroup
}

// placeCommand advances candidate past any occupied cycle and writes the
// command at the resulting final_time, enforcing I7 (at most one command
// per cycle).
func (g *Generator) placeCommand(
	candidate int,
	kind schedmem.CommandKind,
	tag reqbuf.MissTag,
	row, column, requestID int,
) int {
	finalTime := candidate
	for g.mem.Occupied(finalTime) {
		finalTime++
	}

	g.mem.Write(finalTime, kind, tag.BankGroup, tag.Bank, row, column, requestID)

	return finalTime
}

// emitActivate computes the earliest legal ACT cycle, places it, updates
// bank_cmd_ready and the tracker, and folds it into the T_RRD_S and
// T_FAW bookkeeping. Per §9, the very first ACT of a batch is exempt
// from the T_RRD_S (and T_FAW) spacing against last_act_time.
func (g *Generator) emitActivate(tag reqbuf.MissTag, row int) {
	candidate := g.bankCmdReady[tag]

	if g.haveActed {
		if v := g.lastActTime + g.cst.TRRDS; v > candidate {
			candidate = v
		}

		if v := g.fawFloor(); v > candidate {
			candidate = v
		}
	}

	finalTime := g.placeCommand(candidate, schedmem.Activate, tag, row, 0, 0)

	g.bankCmdReady[tag] = finalTime + g.cst.TRCD
	g.bankLastAct[tag] = finalTime
	if finalTime > g.lastActTime || !g.haveActed {
		g.lastActTime = finalTime
	}
	g.haveActed = true

	g.recordActivate(finalTime)
	g.tracker.Activate(tag, row)
}

// recordActivate keeps the sliding window of the four most recent ACT
// times used by fawFloor.
func (g *Generator) recordActivate(finalTime int) {
	g.actWindow = append(g.actWindow, finalTime)
	if len(g.actWindow) > 4 {
		g.actWindow = g.actWindow[len(g.actWindow)-4:]
	}
}

// fawFloor returns the earliest cycle at which a fifth ACT may land
// without violating T_FAW (no more than four ACTs in any T_FAW window).
// Supplemented from original_source/controller.c's tFAW; see SPEC_FULL.md.
func (g *Generator) fawFloor() int {
	if len(g.actWindow) < 4 {
		return 0
	}

	return g.actWindow[0] + g.cst.TFAW
}

// emitPrecharge computes the earliest legal PRE cycle, places it and
// updates bank_cmd_ready and the tracker. Besides bank_cmd_ready and
// bank_pre_min, a PRE must also clear T_RAS against the ACT that opened
// the row being closed (I6) — the narrative §4.7 formula omits this
// because it assumes at least one intervening RD pushes bank_pre_min
// past it, which is not guaranteed for a single-request row; see
// DESIGN.md's Open Questions decision log.
func (g *Generator) emitPrecharge(tag reqbuf.MissTag) {
	candidate := g.bankCmdReady[tag]
	if v := g.bankPreMin[tag]; v > candidate {
		candidate = v
	}
	if v := g.bankLastAct[tag] + g.cst.TRAS; v > candidate {
		candidate = v
	}

	finalTime := g.placeCommand(candidate, schedmem.Precharge, tag, 0, 0, 0)

	g.bankCmdReady[tag] = finalTime + g.cst.TRP
	g.tracker.Precharge(tag)
}

// emitRead computes the earliest legal RD cycle, places it and updates
// bank_pre_min, last_rd_time and last_rd_bg.
func (g *Generator) emitRead(tag reqbuf.MissTag, requestID int) {
	req := g.buf.Get(requestID)
	candidate := g.bankCmdReady[tag]

	if g.haveRead {
		ccd := g.cst.CCDFor(tag.BankGroup == g.lastRDBG)
		if v := g.lastRDTime + ccd; v > candidate {
			candidate = v
		}
	}

	finalTime := g.placeCommand(candidate, schedmem.Read, tag, req.Row, req.Column, requestID)

	g.bankPreMin[tag] = finalTime + g.cst.TRTP
	if finalTime > g.lastRDTime || !g.haveRead {
		g.lastRDTime = finalTime
	}
	g.haveRead = true
	g.lastRDBG = tag.BankGroup
}

// pickNext implements §4.7 step 6: scan from index 0 upward, skipping
// finished SBRs, preferring the first whose bank group differs from
// lastBG; if none differs, fall back to the first non-finished SBR.
func pickNext(cursors []sbrCursor, sbrT *sbr.Table, lastBG int) int {
	for i := range cursors {
		if cursors[i].finished {
			continue
		}

		if sbrT.Get(i).Tag.BankGroup != lastBG {
			return i
		}
	}

	for i := range cursors {
		if !cursors[i].finished {
			return i
		}
	}

	return -1
}
