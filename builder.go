package dramsched

import (
	"github.com/sahil-g0/dramsched/internal/bankstate"
	"github.com/sahil-g0/dramsched/internal/dramtrace"
	"github.com/sahil-g0/dramsched/internal/reqbuf"
	"github.com/sahil-g0/dramsched/internal/sbr"
	"github.com/sahil-g0/dramsched/internal/schedmem"
	"github.com/sahil-g0/dramsched/internal/srr"
	"github.com/sahil-g0/dramsched/internal/timing"
)

// Builder assembles a Scheduler. Grounded on mem/dram/builder.go's
// value-receiver Builder/MakeBuilder/With*/Build shape.
type Builder struct {
	cst   timing.Constants
	trace dramtrace.Writer
}

// MakeBuilder creates a Builder seeded with §6's bit-exact protocol
// timing defaults, the way MakeBuilder seeds DDR3 defaults in the teacher.
func MakeBuilder() Builder {
	return Builder{
		cst: timing.Default(),
	}
}

// WithDefaultProtocolTimings resets every timing constant and capacity to
// §6's default values, discarding any timing or capacity With* overrides
// applied so far. A trace writer set with WithTraceWriter is kept.
func (b Builder) WithDefaultProtocolTimings() Builder {
	b.cst = timing.Default()
	return b
}

// WithTRCD sets the row-to-column delay in cycles.
func (b Builder) WithTRCD(cycles int) Builder {
	b.cst.TRCD = cycles
	return b
}

// WithTRP sets the row precharge latency in cycles.
func (b Builder) WithTRP(cycles int) Builder {
	b.cst.TRP = cycles
	return b
}

// WithTRAS sets the row access strobe latency in cycles.
func (b Builder) WithTRAS(cycles int) Builder {
	b.cst.TRAS = cycles
	return b
}

// WithTRRDS sets the short activate-to-activate latency in cycles.
func (b Builder) WithTRRDS(cycles int) Builder {
	b.cst.TRRDS = cycles
	return b
}

// WithTRRDL sets the long activate-to-activate latency in cycles.
func (b Builder) WithTRRDL(cycles int) Builder {
	b.cst.TRRDL = cycles
	return b
}

// WithTCCDS sets the short column-to-column delay in cycles.
func (b Builder) WithTCCDS(cycles int) Builder {
	b.cst.TCCDS = cycles
	return b
}

// WithTCCDL sets the long column-to-column delay in cycles.
func (b Builder) WithTCCDL(cycles int) Builder {
	b.cst.TCCDL = cycles
	return b
}

// WithTRTP sets the read-to-precharge latency in cycles.
func (b Builder) WithTRTP(cycles int) Builder {
	b.cst.TRTP = cycles
	return b
}

// WithTFAW sets the four-activate window in cycles.
func (b Builder) WithTFAW(cycles int) Builder {
	b.cst.TFAW = cycles
	return b
}

// WithMaxRequests sets the request buffer's capacity.
func (b Builder) WithMaxRequests(n int) Builder {
	b.cst.MaxRequests = n
	return b
}

// WithMaxSRREntries sets the SRR table's capacity.
func (b Builder) WithMaxSRREntries(n int) Builder {
	b.cst.MaxSRREntries = n
	return b
}

// WithMaxSBREntries sets the SBR table's capacity.
func (b Builder) WithMaxSBREntries(n int) Builder {
	b.cst.MaxSBREntries = n
	return b
}

// WithMaxScheduleCycles sets Schedule Memory's capacity.
func (b Builder) WithMaxScheduleCycles(n int) Builder {
	b.cst.MaxScheduleCycles = n
	return b
}

// WithTraceWriter attaches a trace sink that mirrors every completed
// batch's emitted commands, e.g. a *dramtrace.SQLiteWriter. Passing nil
// (the default) disables tracing entirely.
func (b Builder) WithTraceWriter(w dramtrace.Writer) Builder {
	b.trace = w
	return b
}

// Build wires the scratchpad components and the coordinator together and
// returns a ready-to-use *Scheduler in the IDLE state.
func (b Builder) Build() *Scheduler {
	return &Scheduler{
		cst:     b.cst,
		buf:     reqbuf.NewBuffer(b.cst.MaxRequests),
		srrT:    srr.NewTable(b.cst.MaxSRREntries),
		sbrT:    sbr.NewTable(b.cst.MaxSBREntries),
		tracker: bankstate.NewTracker(),
		mem:     schedmem.NewMemory(b.cst.MaxScheduleCycles),
		trace:   b.trace,
		state:   Idle,
	}
}
