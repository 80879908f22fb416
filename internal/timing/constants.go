// Package timing holds the DDR-class timing constants and capacity limits
// that the scheduler enforces. Values mirror the bit-exact defaults named
// in the scheduler's external interface; a Builder may override any of
// them before a batch is scheduled.
package timing

// Constants bundles every cycle-count timing parameter the generator
// consults when placing a command, plus the table/cycle capacities the
// batch scheduler and schedule memory are bounded by.
type Constants struct {
	// Address field widths, kept for bit-exactness with the external
	// interface even though Go request fields are plain ints.
	BankGroupWidth int
	BankWidth      int
	RowWidth       int
	ColumnWidth    int
	RequestIDWidth int

	MaxRequests       int
	MaxSRREntries     int
	MaxSBREntries     int
	MaxScheduleCycles int

	TRCD  int // ACT -> RD/WR
	TRP   int // PRE -> ACT
	TRAS  int // ACT -> PRE (lower bound)
	TRRDS int // ACT -> ACT, different bank group
	TRRDL int // ACT -> ACT, same bank group
	TCCDS int // RD -> RD, different bank group
	TCCDL int // RD -> RD, same bank group
	TRTP  int // RD -> PRE

	// TFAW bounds the four-activate window: no more than four ACTs may
	// land within any TFAW-cycle span. Not named by the distilled spec,
	// supplemented from original_source/controller.c's tFAW #define.
	TFAW int
}

// Default returns the bit-exact defaults named in the scheduler's
// external interface.
func Default() Constants {
	return Constants{
		BankGroupWidth: 2,
		BankWidth:      2,
		RowWidth:       18,
		ColumnWidth:    10,
		RequestIDWidth: 6,

		MaxRequests:       64,
		MaxSRREntries:     32,
		MaxSBREntries:     16,
		MaxScheduleCycles: 2048,

		TRCD:  14,
		TRP:   14,
		TRAS:  32,
		TRRDS: 4,
		TRRDL: 4,
		TCCDS: 4,
		TCCDL: 7,
		TRTP:  8,

		TFAW: 16,
	}
}

// CCDFor returns the CAS-to-CAS spacing to use between two consecutive RD
// commands, given whether they target the same bank group. Per the
// resolved open question, same-group spacing (T_CCD_L) is the larger of
// the two and must be used for matching groups; T_CCD_S applies across
// groups.
func (c Constants) CCDFor(sameBankGroup bool) int {
	if sameBankGroup {
		return c.TCCDL
	}

	return c.TCCDS
}
